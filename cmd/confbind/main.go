package main

import (
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/confbind/confbind"
)

const version = "0.1.0"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// run executes the CLI with the given arguments, writing results to out.
func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("no command specified\n\nRun 'confbind help' for usage")
	}

	switch args[0] {
	case "protect":
		return runTransform(confbind.Encrypt, args[1:], out)
	case "unprotect":
		return runTransform(confbind.Decrypt, args[1:], out)
	case "version", "--version", "-v":
		fmt.Fprintf(out, "confbind version %s\n", version)
		return nil
	case "help", "--help", "-h":
		printHelp(out)
		return nil
	default:
		return fmt.Errorf("unknown command: %s\n\nRun 'confbind help' for usage", args[0])
	}
}

// runTransform protects or unprotects a single value for pasting into a
// configuration file. Output round-trips through a decrypt walk that uses
// the same key, entropy, and scope.
func runTransform(dir confbind.Direction, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(string(dir), flag.ContinueOnError)
	keyHex := fs.String("key", os.Getenv("CONFBIND_KEY"), "master key as hex (defaults to $CONFBIND_KEY)")
	entropyHex := fs.String("entropy", "", "optional entropy as hex")
	scope := fs.String("scope", string(confbind.ScopeMachine), "protection scope: machine or user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one value, got %d", fs.NArg())
	}
	if *keyHex == "" {
		return fmt.Errorf("a master key is required (-key or $CONFBIND_KEY)")
	}

	key, err := hex.DecodeString(*keyHex)
	if err != nil {
		return fmt.Errorf("key is not valid hex: %w", err)
	}

	params := confbind.DefaultParams()
	if *entropyHex != "" {
		entropy, err := hex.DecodeString(*entropyHex)
		if err != nil {
			return fmt.Errorf("entropy is not valid hex: %w", err)
		}
		params.Entropy = entropy
	}
	if !confbind.IsValidScope(confbind.Scope(*scope)) {
		return fmt.Errorf("unknown scope %q", *scope)
	}
	params.Scope = confbind.Scope(*scope)

	prot, err := confbind.Local(key)
	if err != nil {
		return err
	}

	value := fs.Arg(0)
	switch dir {
	case confbind.Encrypt:
		sealed, err := prot.Protect([]byte(value), params)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, base64.StdEncoding.EncodeToString(sealed))
	case confbind.Decrypt:
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return fmt.Errorf("value is not base64: %w", err)
		}
		plain, err := prot.Unprotect(raw, params)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(plain))
	}

	return nil
}

// printHelp prints usage information.
func printHelp(out io.Writer) {
	fmt.Fprintln(out, "confbind - Prepare protected values for configuration files")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  confbind protect [flags] <value>")
	fmt.Fprintln(out, "  confbind unprotect [flags] <value>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  protect     Encrypt a value and print it base64-encoded")
	fmt.Fprintln(out, "  unprotect   Decrypt a base64-encoded value and print the plaintext")
	fmt.Fprintln(out, "  version     Print version information")
	fmt.Fprintln(out, "  help        Show this help message")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fmt.Fprintln(out, "  -key string        Master key as hex (defaults to $CONFBIND_KEY)")
	fmt.Fprintln(out, "  -entropy string    Optional entropy as hex")
	fmt.Fprintln(out, "  -scope string      Protection scope: machine or user (default: machine)")
}
