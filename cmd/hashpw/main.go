// Command hashpw prints a bcrypt hash for seeding users/{uid}.passwordHash,
// or checks a password against an existing hash with -check.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JunoAX/beework-go/internal/auth"
)

func main() {
	check := flag.String("check", "", "existing hash to verify the password against")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hashpw [-check HASH] PASSWORD")
		os.Exit(2)
	}
	password := flag.Arg(0)

	if *check != "" {
		if err := auth.CheckPassword(*check, password); err != nil {
			fmt.Println("FAIL:", err)
			os.Exit(1)
		}
		fmt.Println("PASS - hash matches password")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash failed:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
