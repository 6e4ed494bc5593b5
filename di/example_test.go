package di_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/sghaida/odiscope/di"
)

func ExampleInject() {
	conn := func(_ context.Context, _ di.Args, yield di.Yield) error {
		fmt.Println("connect")
		if err := yield("conn-1"); err != nil {
			fmt.Println("disconnect after:", err)
			return err
		}
		fmt.Println("disconnect")
		return nil
	}
	tx := func(_ context.Context, in di.Args, yield di.Yield) error {
		fmt.Println("begin on", di.MustArgAs[string](in, "conn"))
		if err := yield("tx-1"); err != nil {
			fmt.Println("rollback")
			return err
		}
		fmt.Println("commit")
		return nil
	}

	reg := di.NewRegistry().
		Provide("conn", conn).
		Provide("tx", tx, di.Depends("conn", "conn"))

	save, err := di.Inject(reg, func(_ context.Context, name string, deps di.Args) (string, error) {
		if name == "" {
			return "", errors.New("empty name")
		}
		return fmt.Sprintf("saved %s in %s", name, di.MustArgAs[string](deps, "tx")), nil
	}, di.Depends("tx", "tx"))
	if err != nil {
		fmt.Println(err)
		return
	}

	out, err := save(context.Background(), "alice")
	fmt.Println(out, err)

	_, err = save(context.Background(), "")
	fmt.Println(err)
	// Output:
	// connect
	// begin on conn-1
	// commit
	// disconnect
	// saved alice in tx-1 <nil>
	// connect
	// begin on conn-1
	// rollback
	// disconnect after: empty name
	// empty name
}

func ExampleRegistry_Plan() {
	leaf := func(_ context.Context, _ di.Args, yield di.Yield) error { return yield(nil) }

	plan, err := di.NewRegistry().
		Provide("session", leaf).
		Provide("db", leaf, di.Depends("session", "session")).
		Provide("swap_schema", leaf, di.Depends("db", "db")).
		Plan(di.Depends("schema_swap", "swap_schema"))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(plan.Order())
	fmt.Println(plan.Teardown())
	// Output:
	// [session db swap_schema]
	// [swap_schema db session]
}
