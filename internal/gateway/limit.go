package gateway

import (
	"errors"
	"fmt"
	"io"
)

// ErrBodyTooLarge reports that a response body exceeded the configured cap.
var ErrBodyTooLarge = errors.New("response body too large")

// readLimited reads r fully, failing once limit bytes are exceeded.
// A limit <= 0 disables the cap.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	lr := &io.LimitedReader{R: r, N: limit + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (limit %d bytes)", ErrBodyTooLarge, limit)
	}
	return data, nil
}
