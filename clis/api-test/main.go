package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

const defaultBase = "http://localhost:9000"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	base := os.Getenv("API_BASE")
	if base == "" {
		base = defaultBase
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "nonce":
		get(base + "/v1/auth/nonce")
	case "sso":
		get(base + "/v1/auth/sso?sso=" + mustArg(args, 0) + "&sig=" + mustArg(args, 1))
	case "authenticate":
		postJSON(base+"/v1/auth/authenticate", args)
	case "health":
		get(base + "/v1/health")

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`Usage: cli <command> [options]

Commands:
  nonce                                   GET  /v1/auth/nonce
  sso          <sso-b64> <sig-hex>        GET  /v1/auth/sso
  authenticate -d '[{"type":"...","pcd":"..."}]'  POST /v1/auth/authenticate
  health                                  GET  /v1/health

Environment:
  API_BASE   override default http://localhost:9000
  SID        session cookie value, replayed as Cookie: sid=<SID>

`)
}

func mustArg(args []string, idx int) string {
	if len(args) <= idx {
		fmt.Fprintf(os.Stderr, "missing argument %d\n", idx+1)
		usage()
		os.Exit(1)
	}
	return args[idx]
}

func get(url string) {
	do("GET", url, nil)
}

func postJSON(url string, args []string) {
	data := pickJSON(args)
	do("POST", url, data)
}

func pickJSON(args []string) io.Reader {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	body := fs.String("d", "", "request JSON body")
	fs.Parse(args)
	var r io.Reader
	if *body != "" {
		r = bytes.NewBufferString(*body)
	} else {
		// read from stdin
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			r = os.Stdin
		}
	}
	return r
}

func do(method, url string, body io.Reader) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		fmt.Println("req:", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid := os.Getenv("SID"); sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("do:", err)
		os.Exit(1)
	}
	defer res.Body.Close()

	fmt.Printf("→ %s %s\n", method, url)
	for _, c := range res.Cookies() {
		fmt.Printf("← Set-Cookie: %s=%s\n", c.Name, c.Value)
	}
	fmt.Printf("← %d %s\n\n", res.StatusCode, http.StatusText(res.StatusCode))
	io.Copy(os.Stdout, res.Body)
	fmt.Println()
}
