package cli

import (
	"context"
	"errors"
	"log"

	"github.com/gontarzpawel/photo-pigeon-send/internal/common"
)

func (a *App) Login(ctx context.Context) {

	serverURL, err := GetSimpleText(a.reader, "Enter server URL (empty to keep "+a.serverURL()+")")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if serverURL == "" {
		serverURL = a.serverURL()
	}

	userName, err := GetSimpleText(a.reader, "Enter username")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword()
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	err = a.authService.Login(ctx, userName, string(password), serverURL)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidURL):
			log.Printf("Invalid server URL: %s", serverURL)
		case errors.Is(err, common.ErrBadCredential):
			log.Printf("Login unsuccessfull: invalid credentials")
		default:
			log.Printf("Login unsuccessfull: %s", err.Error())
		}
		return
	}

	log.Printf("Login successfull")
}

func (a *App) Register(ctx context.Context) {

	serverURL, err := GetSimpleText(a.reader, "Enter server URL (empty to keep "+a.serverURL()+")")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if serverURL == "" {
		serverURL = a.serverURL()
	}

	userName, err := GetSimpleText(a.reader, "Enter username")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	email, err := GetSimpleText(a.reader, "Enter email")
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword()
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	err = a.authService.Register(ctx, userName, string(password), email, serverURL)
	if err != nil {
		log.Printf("Registration unsuccessfull: %s", err.Error())
		return
	}

	log.Printf("Registration successfull, you can now log in")
}

func (a *App) Logout(ctx context.Context) {
	if err := a.authService.Logout(ctx); err != nil {
		log.Printf("error: %v", err)
		return
	}
	log.Printf("Logged out")
}
