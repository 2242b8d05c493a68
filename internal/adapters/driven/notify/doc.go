// Package notify delivers operator emails over SMTP.
package notify
