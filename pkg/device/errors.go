package device

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

var (
	// ErrUnreachable covers transport failures and timeouts; the device may
	// simply be powered off. Transient.
	ErrUnreachable = errors.New("device unreachable")

	// ErrRejected covers commands the device refused or answers it should
	// never give. Usually a firmware mismatch, not transient.
	ErrRejected = errors.New("device rejected request")
)

func unreachable(err error) error {
	return fmt.Errorf("%v: %w", err, ErrUnreachable)
}

func rejected(op string, resp *resty.Response) error {
	return fmt.Errorf("%s: http %d: %w", op, resp.StatusCode(), ErrRejected)
}
