package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/eion/userconsole/internal/console"
	"github.com/eion/userconsole/internal/users"
)

func validateFormat(format string) error {
	switch format {
	case "json", "text":
		return nil
	}
	return fmt.Errorf("invalid format %q: must be json or text", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeUsers(w io.Writer, format string, list []users.User) error {
	if format == "json" {
		if list == nil {
			list = []users.User{}
		}
		return writeJSON(w, list)
	}

	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No users found")
		return err
	}
	for _, u := range list {
		if _, err := fmt.Fprintf(w, "%s - %s\n", u.Name, u.Email); err != nil {
			return err
		}
	}
	return nil
}

func writeUser(w io.Writer, u *users.User) error {
	return writeJSON(w, u)
}

func writeNotice(w io.Writer, format string, n *console.Notice) error {
	if format == "json" {
		return writeJSON(w, n)
	}
	_, err := fmt.Fprintln(w, n.Message)
	return err
}
