package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/latticehq/lattice/pkg/domain"
	"github.com/latticehq/lattice/pkg/ports"
)

// envelopeNodeID marks a stored workflow as an encrypted envelope.
const envelopeNodeID = "__encrypted__"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new data. Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are old keys tried when decryption with the active
	// key fails, enabling zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.WorkflowStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that stores workflows
// as AES-GCM envelopes. Workflow bodies (node payloads may contain
// customer-authored content) never reach the backing store in plain
// text; only the workflow ID stays visible for listing.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.WorkflowStore) ports.WorkflowStore {
		return &encryptionMiddleware{next: next, config: config}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, w *domain.Workflow) error {
	plain, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal workflow: %w", err)
	}

	ciphertext, err := encrypt(plain, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("encrypt workflow: %w", err)
	}

	// The envelope is itself a valid workflow so any backing store can
	// hold it: one action node carrying the ciphertext.
	envelope := &domain.Workflow{
		ID: w.ID,
		Nodes: []domain.Node{{
			ID:   envelopeNodeID,
			Type: domain.NodeTypeAction,
			Data: domain.ActionData{
				ActionType: envelopeNodeID,
				Parameters: map[string]any{
					"ciphertext": base64.StdEncoding.EncodeToString(ciphertext),
				},
			},
		}},
		Edges: []domain.Edge{},
	}
	return m.next.Save(ctx, envelope)
}

func (m *encryptionMiddleware) Load(ctx context.Context, id string) (*domain.Workflow, error) {
	envelope, err := m.next.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	encoded, ok := envelopeCiphertext(envelope)
	if !ok {
		// Encryption is configured, so a plain workflow here means the
		// store was written without it. Fail closed.
		return nil, errors.New("workflow is missing encrypted data envelope")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext base64: %w", err)
	}

	plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("decrypt workflow: %w", err)
	}

	var w domain.Workflow
	if err := json.Unmarshal(plain, &w); err != nil {
		return nil, fmt.Errorf("unmarshal decrypted workflow: %w", err)
	}
	return &w, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func envelopeCiphertext(w *domain.Workflow) (string, bool) {
	if len(w.Nodes) != 1 || w.Nodes[0].ID != envelopeNodeID {
		return "", false
	}
	data, ok := w.Nodes[0].Data.(domain.ActionData)
	if !ok {
		return "", false
	}
	encoded, ok := data.Parameters["ciphertext"].(string)
	return encoded, ok
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, body, nil)
}
