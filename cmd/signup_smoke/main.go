package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/MegaUnlimited-io/farmcash-public/internal/fingerprint"
)

// ipLookupURL honours IP_LOOKUP_URL so the smoke run can use a local stub.
func ipLookupURL() string {
	if v := os.Getenv("IP_LOOKUP_URL"); v != "" {
		return v
	}
	return fingerprint.DefaultIPLookupURL
}

// Runs the landing -> signup -> dashboard flow against a running server.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := flag.String("base", "http://127.0.0.1:"+port, "server base URL")
	email := flag.String("email", fmt.Sprintf("smoke+%d@farmcash.local", time.Now().Unix()), "signup email")
	ref := flag.String("ref", "", "referral code to arrive with")
	ipURL := flag.String("ip-lookup", ipLookupURL(), "public IP lookup endpoint")
	flag.Parse()

	ctx := context.Background()

	ip, err := fingerprint.NewIpifyClient(*ipURL, 5*time.Second).LookupIP(ctx)
	if err != nil {
		log.Printf("ip lookup failed (continuing): %v", err)
	} else {
		log.Printf("public ip=%s", ip)
	}

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar, Timeout: 15 * time.Second}

	if *ref != "" {
		call(client, http.MethodGet, *base+"/api/v1/referral/capture?ref="+*ref, nil, "")
		call(client, http.MethodGet, *base+"/api/v1/referral/stored", nil, "")
	}

	body := map[string]any{
		"email":         *email,
		"game_type":     "idle",
		"rewarded_apps": []string{"Mistplay"},
		"devices":       []string{"desktop"},
		"timezone":      "UTC",
		"referrer":      "signup_smoke",
	}
	resp := call(client, http.MethodPost, *base+"/api/v1/waitlist/signup", body, "")

	var signup struct {
		Data struct {
			UserID       string `json:"user_id"`
			ReferralCode string `json:"referral_code"`
			AccessToken  string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp, &signup); err != nil {
		log.Fatalf("decode signup: %v", err)
	}
	if signup.Data.ReferralCode == "" {
		log.Fatal("signup returned no referral code")
	}

	call(client, http.MethodGet, *base+"/api/v1/referral/lookup?code="+signup.Data.ReferralCode, nil, "")

	if signup.Data.AccessToken == "" {
		log.Println("no access token (email confirmation required); skipping dashboard")
	} else {
		call(client, http.MethodGet, *base+"/api/v1/dashboard", nil, signup.Data.AccessToken)
	}

	log.Println("smoke test finished")
}

func call(client *http.Client, method, url string, body any, token string) []byte {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("encode: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Timezone", "UTC")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()

	out, _ := io.ReadAll(res.Body)
	log.Printf("%s %s -> %d %s", method, url, res.StatusCode, out)
	if res.StatusCode >= 400 {
		log.Fatalf("%s %s failed", method, url)
	}
	return out
}
