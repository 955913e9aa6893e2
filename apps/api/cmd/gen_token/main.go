// Command gen_token prints a signed development token and can seed it into
// a file token store so the gateway starts with a session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"smartcity/libs/tokenstore"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	email := flag.String("email", "admin@smartcity.gov", "email claim")
	role := flag.String("role", "Administrator", "role claim")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime; negative values produce an expired token")
	secret := flag.String("secret", "test-secret", "HS256 signing secret")
	storePath := flag.String("store", "", "optional token file to seed (TOKEN_FILE_PATH)")
	sealingSecret := flag.String("sealing-secret", os.Getenv("TOKEN_SEALING_SECRET"), "seal the stored token with this secret")
	flag.Parse()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   uuid.NewString(),
		"email": *email,
		"role":  *role,
		"iat":   now.Unix(),
		"exp":   now.Add(*ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to sign token:", err)
		os.Exit(1)
	}

	if *storePath != "" {
		if err := seed(*storePath, *sealingSecret, signedToken); err != nil {
			fmt.Fprintln(os.Stderr, "failed to seed token store:", err)
			os.Exit(1)
		}
	}
	fmt.Println(signedToken)
}

func seed(path, sealingSecret, token string) error {
	ctx := context.Background()
	var opts []tokenstore.Option
	if sealingSecret != "" {
		opts = append(opts, tokenstore.WithSealer(sealingSecret))
	}
	store, err := tokenstore.Open(ctx, tokenstore.NewFileBackend(path), opts...)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Set(ctx, token)
}
