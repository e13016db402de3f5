// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// seq prints the integers FIRST..LAST, with FIRST and INCREMENT defaulting
// to 1.
func seq(_ context.Context, hc *HandlerContext, args []string) error {
	operands := args[1:]
	if len(operands) == 0 || len(operands) > 3 {
		return errMissingOperand
	}
	nums := make([]int, len(operands))
	for i, op := range operands {
		n, err := strconv.Atoi(op)
		if err != nil {
			return fmt.Errorf("invalid number %q", op)
		}
		nums[i] = n
	}

	first, step, last := 1, 1, nums[len(nums)-1]
	switch len(nums) {
	case 2:
		first = nums[0]
	case 3:
		first, step = nums[0], nums[1]
	}
	if step == 0 {
		return fmt.Errorf("invalid zero increment")
	}
	for i := first; (step > 0 && i <= last) || (step < 0 && i >= last); i += step {
		if _, err := fmt.Fprintln(hc.Stdout, i); err != nil {
			return err
		}
	}
	return nil
}

// sleep accepts plain seconds ("1.5") or a duration ("200ms") and returns
// early when ctx is cancelled.
func sleep(ctx context.Context, _ *HandlerContext, args []string) error {
	if len(args) < 2 {
		return errMissingOperand
	}
	var total time.Duration
	for _, op := range args[1:] {
		d, err := time.ParseDuration(op)
		if err != nil {
			secs, ferr := strconv.ParseFloat(op, 64)
			if ferr != nil || secs < 0 {
				return fmt.Errorf("invalid time interval %q", op)
			}
			d = time.Duration(secs * float64(time.Second))
		}
		total += d
	}

	timer := time.NewTimer(total)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
