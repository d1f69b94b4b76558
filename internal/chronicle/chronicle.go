// Package chronicle persists call transcripts. Transcripts are written as
// JSON documents, either locally under the data dir or to a configured
// Chronicle ingestion endpoint, falling back to the local store when
// ingestion is unavailable.
package chronicle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

type Item struct {
	Role string `json:"role"`
	Text string `json:"text"`
	AtMS int64  `json:"at_ms"`
}

type Transcript struct {
	CallID   string            `json:"call_id"`
	Items    []Item            `json:"items"`
	Metadata map[string]string `json:"metadata"`
}

type Store struct {
	endpoint string
	dataDir  string
	client   *http.Client
}

func NewStore(endpoint, dataDir string) *Store {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &Store{
		endpoint: endpoint,
		dataDir:  dataDir,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Format assembles a transcript payload for a call.
func (s *Store) Format(callID string, items []Item, metadata map[string]string) Transcript {
	return Transcript{CallID: callID, Items: items, Metadata: metadata}
}

// SaveLocal writes the transcript to <dataDir>/<call_id>.json.
func (s *Store) SaveLocal(t Transcript) (string, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	payload, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}
	path := filepath.Join(s.dataDir, t.CallID+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	log.Info().Str("module", "chronicle").Str("path", path).Msg("saved local transcript")
	return path, nil
}

// Ingest ships the transcript to the Chronicle endpoint. Without an endpoint
// configured, or when ingestion fails, the transcript is saved locally so a
// call record is never lost.
func (s *Store) Ingest(t Transcript) error {
	if s.endpoint == "" {
		log.Warn().Str("module", "chronicle").Msg("chronicle endpoint not configured, using local store")
		_, err := s.SaveLocal(t)
		return err
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewReader(payload))
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode < 300 {
			log.Info().Str("module", "chronicle").Str("call_id", t.CallID).Msg("transcript ingested")
			return nil
		}
		err = fmt.Errorf("chronicle returned status %d", resp.StatusCode)
	}

	log.Error().Str("module", "chronicle").Err(err).Msg("ingestion failed, falling back to local store")
	if _, saveErr := s.SaveLocal(t); saveErr != nil {
		return fmt.Errorf("ingest failed (%v) and local save failed: %w", err, saveErr)
	}
	return nil
}
