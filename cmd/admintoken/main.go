// Command admintoken mints a bearer token accepted by the admin gate.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/forwarding-portal/internal/utils"
)

func main() {
	_ = godotenv.Load()

	subject := flag.String("sub", "backoffice", "token subject")
	role := flag.String("role", "ADMIN", "role claim")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("ADMIN_JWT_SECRET")
	if secret == "" {
		log.Fatal("ADMIN_JWT_SECRET is not set")
	}
	tok, err := utils.NewAdminToken(secret, *subject, *role, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok.Token)
}
