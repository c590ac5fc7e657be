package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"net/mail"
	"sync"
)

type message struct {
	From     string `json:"from"`
	FromName string `json:"fromName"`
	ReplyTo  string `json:"replyTo"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

func main() {
	var (
		port   = flag.String("port", "9098", "port to listen on")
		apiKey = flag.String("api-key", "", "expected X-API-Key value, empty to accept any")
	)
	flag.Parse()

	var (
		mu   sync.Mutex
		sent []message
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if *apiKey != "" && r.Header.Get("X-API-Key") != *apiKey {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		var msg message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := mail.ParseAddress(msg.To); err != nil {
			http.Error(w, "invalid recipient address", http.StatusUnprocessableEntity)
			return
		}

		mu.Lock()
		sent = append(sent, msg)
		count := len(sent)
		mu.Unlock()

		log.Printf("accepted message %d to %s: %s", count, msg.To, msg.Subject)
		w.WriteHeader(http.StatusAccepted)
	})

	addr := ":" + *port
	log.Printf("mock mail relay listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
