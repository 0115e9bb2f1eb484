package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/isplab/secomp/pkg/bigint"
)

// scenario is one row of the built-in truth table: a >= b should decrypt
// to want.
type scenario struct {
	a, b int64
	want int64
}

var scenarios = []scenario{
	{0, 0, 1},
	{5, 3, 1},
	{3, 5, 0},
	{-100, 100, 0},
	{1<<15 - 1, -(1<<15 - 1), 1},
	{42, 42, 1},
}

func runCompare(cmd *cobra.Command, args []string) error {
	logger := slog.Default()
	sess, err := buildSession(logger)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-8s %-8s %-6s\n", "a", "b", "result", "ok")
	failures := 0
	for _, sc := range scenarios {
		encA, err := sess.Server.EncryptOperand(bigint.NewInt(sc.a))
		if err != nil {
			return err
		}
		encB, err := sess.Server.EncryptOperand(bigint.NewInt(sc.b))
		if err != nil {
			return err
		}
		result, err := sess.Server.Compare(encA, encB)
		if err != nil {
			return err
		}
		plain, err := sess.Client.Decrypt(result)
		if err != nil {
			return err
		}
		got := plain.Big().Int64()
		ok := got == sc.want
		if !ok {
			failures++
		}
		fmt.Printf("%-8d %-8d %-8d %-6t\n", sc.a, sc.b, got, ok)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d scenarios produced an unexpected result", failures, len(scenarios))
	}
	return nil
}
