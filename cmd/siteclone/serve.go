package main

import (
	"fmt"

	schttp "github.com/water102/siteclone/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := schttp.NewServer(c.Dir)
	srv.Addr = c.Addr

	if err := srv.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	defer srv.Close()

	fmt.Fprintf(deps.Stdout, "Serving %s at %s\n", c.Dir, srv.URL())

	<-deps.Ctx.Done()
	return nil
}
