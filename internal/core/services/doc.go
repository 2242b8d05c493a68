// Package services implements the driving port interfaces.
// Services hold the flow logic and reach partners, the order API
// and operators only through driven ports.
//
// InboundPipeline turns partner files into posted orders and files each
// source file as archived or dead-lettered. OutboundPipeline refreshes the
// payload date window, fetches order data and delivers partner files.
// Runner resolves a configured flow and dispatches it to the right pipeline.
package services
