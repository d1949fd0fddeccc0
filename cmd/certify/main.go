package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lindig/certify/cmd/certify/internal/commands"
	"github.com/lindig/certify/internal/entropy"
	"github.com/lindig/certify/internal/logger"
	"github.com/rs/zerolog/log"
)

var (
	version = "dev"
	cli     struct {
		Issue   commands.IssueCmd   `cmd:"" default:"withargs" help:"Issue a self-signed certificate"`
		Inspect commands.InspectCmd `cmd:"" help:"Show the certificate in an issued file"`
		Config  kong.ConfigFlag     `help:"Load flag values from a YAML file." placeholder:"FILE"`
		Debug   bool                `help:"Enable debug mode." env:"CERTIFY_DEBUG"`
		Version kong.VersionFlag
	}
)

func main() {
	// a missing .env is fine
	_ = godotenv.Load(".env")

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("certify"),
		kong.Description("Create a self-signed X.509 certificate and RSA private key in a single PEM file."),
		kong.Configuration(commands.YAMLConfig, "~/.config/certify/config.yaml"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	cmd.FatalIfErrorf(entropy.Init())

	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
