package source

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Built-in demo logs: two overlapping synthetic application logs, one with
// a multi-line traceback and an out-of-sequence pair of entries.
const demoLog1 = `2023-07-14 08:00:01 WARN   Connection lost due to timeout
2023-07-14 08:00:04 ERROR  Request processed unsuccessfully
Something went wrong
Traceback (last line is latest):
    sample.py: line 32
        divide(100, 0)
    sample.py: line 8
        return a / b
ZeroDivisionError: division by zero
2023-07-14 08:00:06 INFO   User authentication failed
2023-07-14 08:00:08 DEBUG  Starting data synchronization
2023-07-14 08:00:11 INFO   Processing incoming request
2023-07-14 08:00:11 INFO   Processing incoming request (a little more...)
2023-07-14 08:00:14 DEBUG  Performing database backup
2023-07-14 08:00:16 WARN   Invalid input received: missing required field
2023-07-14 08:00:19 ERROR  Failed to connect to remote server
2023-07-14 08:00:26 INFO   Sending email notification (out of sequence time)
2023-07-14 08:00:25 WARN   Slow response time detected
2023-07-14 08:00:27 INFO   Data synchronization completed
2023-07-14 08:00:30 DEBUG  Executing scheduled task
2023-07-14 08:00:32 INFO   Request received from IP: 192.168.0.1
2023-07-14 08:00:35 WARN   Insufficient disk space available
2023-07-14 08:00:38 ERROR  Database connection failed`

const demoLog2 = `2023-07-14 08:00:01 INFO   Request processed successfully
2023-07-14 08:00:03 INFO   User authentication succeeded
2023-07-14 08:00:06 DEBUG  Starting data synchronization
2023-07-14 08:00:08 INFO   Processing incoming request
2023-07-14 08:00:11 DEBUG  Performing database backup
2023-07-14 08:00:14 WARN   Invalid input received: missing required field
2023-07-14 08:00:17 ERROR  Failed to connect to remote server
2023-07-14 08:00:19 INFO   Sending email notification
2023-07-14 08:00:22 WARN   Slow response time detected
2023-07-14 08:00:25 INFO   Data synchronization completed
2023-07-14 08:00:28 DEBUG  Executing scheduled task
2023-07-14 08:00:31 INFO   Request received from IP: 192.168.0.1
2023-07-14 08:00:34 WARN   Insufficient disk space available
2023-07-14 08:00:37 ERROR  Database connection failed
2023-07-14 08:00:40 INFO   Request processed successfully
2023-07-14 08:00:43 INFO   User authentication succeeded
2023-07-14 08:00:45 DEBUG  Starting data synchronization`

var demoLogs = map[string]string{
	"logfile_1.demo": demoLog1,
	"logfile_2.demo": demoLog2,
}

// DemoNames returns the built-in demo source names.
func DemoNames() []string {
	return []string{"logfile_1.demo", "logfile_2.demo"}
}

// DemoReader serves one of the built-in demo logs.
type DemoReader struct {
	lines []string
	pos   int
}

// NewDemoReader returns a reader over the named demo log.
func NewDemoReader(name string) (*DemoReader, error) {
	body, ok := demoLogs[name]
	if !ok {
		return nil, fmt.Errorf("unknown demo log %s", name)
	}
	return &DemoReader{lines: strings.Split(body, "\n")}, nil
}

// Next returns the next demo line.
func (r *DemoReader) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	if r.pos >= len(r.lines) {
		return "", io.EOF
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

// Close is a no-op for demo data.
func (r *DemoReader) Close() error {
	return nil
}
