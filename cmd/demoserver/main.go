// Command demoserver starts a small target server for trying out recipes
// locally.
// Usage: go run ./cmd/demoserver [port]
// Default port: 9999
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
)

func routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Root page links to the other endpoints, handy for "Extract links".
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><body>
<h1>ladle demo</h1>
<ul class="nav">
<li><a href="http://%[1]s/echo">Echo</a></li>
<li><a href="http://%[1]s/bytes">Bytes</a></li>
<li><a href="http://%[1]s/headers">Headers</a></li>
</ul>
</body></html>`, r.Host)
	})

	// /echo mirrors the request body back, prefixed with the method.
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s ", r.Method)
		if r.Body != nil {
			defer r.Body.Close()
			body, err := io.ReadAll(r.Body)
			if err == nil {
				_, _ = w.Write(body)
			}
		}
	})

	// /bytes returns a fixed binary payload for Bytes-mode recipes.
	mux.HandleFunc("/bytes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		payload := make([]byte, 256)
		for i := range payload {
			payload[i] = byte(i)
		}
		_, _ = w.Write(payload)
	})

	// /headers reports selected request headers as text.
	mux.HandleFunc("/headers", func(w http.ResponseWriter, r *http.Request) {
		for _, name := range []string{"User-Agent", "Cache-Control", "Pragma", "X-Demo"} {
			if v := r.Header.Get(name); v != "" {
				fmt.Fprintf(w, "%s: %s\n", name, v)
			}
		}
	})

	return mux
}

func main() {
	port := 9999
	if len(os.Args) > 1 {
		p, err := strconv.Atoi(os.Args[1])
		if err != nil || p < 1 || p > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		port = p
	}

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("ladle demo server listening on http://localhost%s\n", addr)
	if err := http.ListenAndServe(addr, routes()); err != nil {
		log.Fatal(err)
	}
}
