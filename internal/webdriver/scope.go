package webdriver

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pagewrap/internal/config"
)

// With starts a driver, runs fn with it and always quits, including when fn fails
// or panics.
func With(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger, fn func(*Driver) error) error {
	d, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return Use(ctx, d, fn)
}

// Use runs fn and then quits d. A quit failure is joined with fn's error. A panic
// in fn is re-raised after the quit.
func Use(ctx context.Context, d *Driver, fn func(*Driver) error) (err error) {
	defer func() {
		r := recover()
		quitErr := d.Quit(context.WithoutCancel(ctx))
		if r != nil {
			if quitErr != nil {
				d.logger.Error("Failed to quit session while panicking.", zap.Error(quitErr))
			}
			panic(r)
		}
		err = errors.Join(err, quitErr)
	}()
	return fn(d)
}
