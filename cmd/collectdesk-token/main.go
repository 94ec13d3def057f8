// Command collectdesk-token issues access tokens signed with the server key.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MikeRez0/collectdesk/internal/adapter/auth"
	"github.com/MikeRez0/collectdesk/internal/adapter/config"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/caarlos0/env/v6"
)

func main() {
	token, err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "token error: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func run(args []string) (string, error) {
	fset := flag.NewFlagSet("collectdesk-token", flag.ContinueOnError)

	conf := config.Auth{}
	fset.StringVar(&conf.TokenKey, "k", "", "Token symmetric key, hex")
	fset.DurationVar(&conf.TokenTTL, "ttl", 12*time.Hour, "Token lifetime")
	subject := fset.Uint64("subject", 0, "Admin or customer id")
	kind := fset.String("kind", string(domain.SubjectAdmin), "admin / customer")
	if err := fset.Parse(args); err != nil {
		return "", err
	}
	if err := env.Parse(&conf); err != nil {
		return "", fmt.Errorf("error parsing auth config: %w", err)
	}
	if conf.TokenKey == "" {
		return "", errors.New("token key is required")
	}

	tokens, err := auth.New(&conf)
	if err != nil {
		return "", err
	}
	return tokens.CreateToken(port.TokenPayload{SubjectID: *subject, Kind: domain.SubjectKind(*kind)})
}
