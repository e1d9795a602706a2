// dev-token signs an access token with the service's jwt key, for poking at
// the API with curl without going through signup.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/brainboard/brainboard/shared/config"
	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/jwt"
)

func main() {
	var (
		configFolder string
		userId       int64
		email        string
	)
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Int64Var(&userId, "user", 1, "user id to sign for")
	flag.StringVar(&email, "email", "dev@example.com", "email claim")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	token, err := jwt.New(cfg.JwtKey(), cfg.TokenTTL()).NewToken(domain.User{Id: userId, Email: email})
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println("=================================================")
	fmt.Printf("  Access token for user %d (%s)\n", userId, email)
	fmt.Println("=================================================")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Use it as:")
	fmt.Printf("curl -H 'Authorization: Bearer %s' %s/boards\n", token, cfg.Public.ApiURL)
	fmt.Println()
	fmt.Println("NOTE: the in-memory store forgets users on restart; the id must")
	fmt.Println("belong to a user that signed up since the service started.")
	fmt.Println("=================================================")
}
