package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/accountkit/go-account-server/accounts/memstore"
	"github.com/accountkit/go-account-server/email"
	"github.com/accountkit/go-account-server/internal/config"
	"github.com/accountkit/go-account-server/server"
	"github.com/accountkit/go-account-server/service"
	"github.com/accountkit/go-account-server/sessions"
	"github.com/accountkit/go-account-server/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	httpServer, err := buildServer(c)
	if err != nil {
		return fmt.Errorf("buildServer: %w", err)
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: httpServer}
	go listenAndServe(srv)
	waitForStopSignal()
	returnError = shutdown(srv)
	return returnError
}

func buildServer(c config.Config) (*server.Server, error) {
	store := memstore.New()

	codec, err := token.NewCodec(
		token.NewHMACSigner(c.GetTokenSecret()),
		token.WithTTL(c.GetConfirmTokenTTL()),
	)
	if err != nil {
		return nil, fmt.Errorf("token.NewCodec: %w", err)
	}

	sessionManager, err := sessions.NewManager(sessions.NewInMemoryRepo())
	if err != nil {
		return nil, fmt.Errorf("sessions.NewManager: %w", err)
	}

	var sender email.Sender
	if c.GetSmtpAccount() != "" {
		sender = email.NewSMTPSender(c)
	} else {
		sender = email.NewLogSender(c.GetBaseURL())
	}

	accountService, err := service.NewAccountService(store, codec, sessionManager, sender)
	if err != nil {
		return nil, fmt.Errorf("service.NewAccountService: %w", err)
	}

	return server.New(c, accountService, sessionManager, server.NewDefaultLocalizer())
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
