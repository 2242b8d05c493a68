// Package transfer implements driven.TransferChannel for the local disk,
// SFTP servers and S3 buckets.
//
// Remote paths always use forward slashes. The local channel maps them
// below a base directory so a flow can switch between local and remote
// transfer without changing its archive layout.
package transfer
