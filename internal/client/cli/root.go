package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gontarzpawel/photo-pigeon-send/internal/client/models"
)

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return "(logged in)"
	}
	return ""
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to photo-pigeon CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("pigeon %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: add <file...>, scan <dir>, (l)ist, upload, remove <id>, clear, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, add <file...>, scan <dir>, (l)ist, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "add":
			a.Add(ctx, args, models.SourceFile)
		case "scan":
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			a.Scan(ctx, dir)
		case "l", "list", "queue":
			a.List()
		case "upload":
			a.Upload(ctx)
		case "remove":
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			a.Remove(id)
		case "clear":
			a.ClearCompleted()
		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
