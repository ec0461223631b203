package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
)

func main() {
	apiKey := os.Getenv("DEEPGRAM_API_KEY")
	if apiKey == "" {
		log.Fatal("DEEPGRAM_API_KEY env required")
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "localhost:8765"
	}

	finalEvery := 5
	if v := os.Getenv("FINAL_EVERY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatal("FINAL_EVERY must be a positive integer")
		}
		finalEvery = n
	}

	srv := &listenServer{apiKey: apiKey, finalEvery: finalEvery}

	mux := http.NewServeMux()
	mux.Handle("/v1/listen", srv)

	fmt.Printf("[MOCK] Listening on ws://%s/v1/listen (final every %d frames)\n", addr, finalEvery)
	fmt.Printf("[MOCK] Point the relay at it with DEEPGRAM_URL=ws://%s/v1/listen\n", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
