// Command createuser registers a user from the terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/gophdiary/internal/prompt"
	"github.com/dmitrijs2005/gophdiary/internal/server"
	"github.com/dmitrijs2005/gophdiary/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	name, err := prompt.Line(bufio.NewReader(os.Stdin), "Username", os.Stdout)
	if err != nil {
		log.Fatalf("read username: %v", err)
	}
	password, err := prompt.NewPassword(os.Stdout)
	if err != nil {
		log.Fatalf("read password: %v", err)
	}

	id, err := server.CreateUser(ctx, cfg, name, password)
	if err != nil {
		log.Fatalf("create user: %v", err)
	}
	fmt.Printf("created user %s (%s)\n", name, id)
}
