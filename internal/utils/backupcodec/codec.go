// Package backupcodec encodes ledger snapshots in the supported backup
// formats and decodes them back, validating structure and size on both paths.
package backupcodec

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// DefaultMaxBytes is the size ceiling used when none is configured.
const DefaultMaxBytes int64 = 10 * 1024 * 1024

const (
	saltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keySize      = chacha20poly1305.KeySize
)

var (
	encryptedMagic = []byte("LBKENC01")
	gzipMagic      = []byte{0x1f, 0x8b}
)

// Codec converts snapshots to and from bytes.
type Codec struct {
	maxBytes int64
	validate *validator.Validate
}

// New creates a codec rejecting payloads larger than maxBytes.
func New(maxBytes int64) *Codec {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Codec{maxBytes: maxBytes, validate: validator.New()}
}

// MaxBytes returns the size ceiling.
func (c *Codec) MaxBytes() int64 {
	return c.maxBytes
}

func integrityError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrBackupIntegrity, fmt.Sprintf(format, args...))
}

func (c *Codec) tooLarge(size int64) error {
	return fmt.Errorf("%w: %w: snapshot exceeds %d bytes (got at least %d)",
		apperrors.ErrBackupIntegrity, apperrors.ErrPayloadTooLarge, c.maxBytes, size)
}

// DetectFormat sniffs the format of an encoded snapshot.
func DetectFormat(data []byte) (domain.BackupFormat, error) {
	switch {
	case bytes.HasPrefix(data, encryptedMagic):
		return domain.FormatEncrypted, nil
	case bytes.HasPrefix(data, gzipMagic):
		return domain.FormatJSONGzip, nil
	case bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n\ufeff"), []byte("{")):
		return domain.FormatJSON, nil
	}
	return "", integrityError("unrecognized snapshot format")
}

// Encode validates the snapshot and serializes it in format. The size
// ceiling applies to the JSON document.
func (c *Codec) Encode(s *domain.Snapshot, format domain.BackupFormat, passphrase string) ([]byte, error) {
	if _, ok := domain.BackupFormats[format]; !ok {
		return nil, fmt.Errorf("%w: unsupported backup format %q", apperrors.ErrValidation, format)
	}
	if format == domain.FormatEncrypted && passphrase == "" {
		return nil, fmt.Errorf("%w: a passphrase is required for encrypted backups", apperrors.ErrValidation)
	}
	s.Format = format
	if err := c.Validate(s); err != nil {
		return nil, err
	}

	doc, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal snapshot: %w", apperrors.ErrBackupIntegrity, err)
	}
	if int64(len(doc)) > c.maxBytes {
		return nil, c.tooLarge(int64(len(doc)))
	}

	switch format {
	case domain.FormatJSON:
		return doc, nil
	case domain.FormatJSONGzip:
		return compress(doc)
	default:
		zipped, err := compress(doc)
		if err != nil {
			return nil, err
		}
		return seal(zipped, passphrase)
	}
}

// Decode detects the format, unwraps the payload and validates the snapshot.
func (c *Codec) Decode(data []byte, passphrase string) (*domain.Snapshot, error) {
	if int64(len(data)) > c.maxBytes {
		return nil, c.tooLarge(int64(len(data)))
	}
	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	doc := data
	switch format {
	case domain.FormatEncrypted:
		if passphrase == "" {
			return nil, fmt.Errorf("%w: a passphrase is required for encrypted backups", apperrors.ErrValidation)
		}
		zipped, err := open(data, passphrase)
		if err != nil {
			return nil, err
		}
		if doc, err = c.decompress(zipped); err != nil {
			return nil, err
		}
	case domain.FormatJSONGzip:
		if doc, err = c.decompress(data); err != nil {
			return nil, err
		}
	}

	var s domain.Snapshot
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, integrityError("invalid snapshot JSON: %v", err)
	}
	if err := c.Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func compress(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(doc); err != nil {
		return nil, fmt.Errorf("%w: compress snapshot: %w", apperrors.ErrBackupIntegrity, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: compress snapshot: %w", apperrors.ErrBackupIntegrity, err)
	}
	return buf.Bytes(), nil
}

func (c *Codec) decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, integrityError("invalid gzip stream: %v", err)
	}
	defer zr.Close()

	doc, err := io.ReadAll(io.LimitReader(zr, c.maxBytes+1))
	if err != nil {
		return nil, integrityError("invalid gzip stream: %v", err)
	}
	if int64(len(doc)) > c.maxBytes {
		return nil, c.tooLarge(int64(len(doc)))
	}
	return doc, nil
}

func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keySize)
}

// seal lays out magic | salt | nonce | ciphertext. The header is authenticated.
func seal(plain []byte, passphrase string) ([]byte, error) {
	header := make([]byte, 0, len(encryptedMagic)+saltSize+chacha20poly1305.NonceSizeX)
	header = append(header, encryptedMagic...)

	salt, err := randomBytes(saltSize)
	if err != nil {
		return nil, err
	}
	nonce, err := randomBytes(chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, err
	}
	header = append(header, salt...)
	header = append(header, nonce...)

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("%w: init cipher: %w", apperrors.ErrBackupIntegrity, err)
	}
	return aead.Seal(header, nonce, plain, header), nil
}

func open(data []byte, passphrase string) ([]byte, error) {
	headerSize := len(encryptedMagic) + saltSize + chacha20poly1305.NonceSizeX
	if len(data) < headerSize+chacha20poly1305.Overhead {
		return nil, integrityError("encrypted snapshot is truncated")
	}
	header := data[:headerSize]
	salt := header[len(encryptedMagic) : len(encryptedMagic)+saltSize]
	nonce := header[len(encryptedMagic)+saltSize:]

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("%w: init cipher: %w", apperrors.ErrBackupIntegrity, err)
	}
	plain, err := aead.Open(nil, nonce, data[headerSize:], header)
	if err != nil {
		return nil, integrityError("cannot decrypt snapshot: wrong passphrase or corrupted data")
	}
	return plain, nil
}

// Validate checks struct tags and the cross-record rules of a snapshot.
func (c *Codec) Validate(s *domain.Snapshot) error {
	if err := c.validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return integrityError("invalid fields: %s", strings.Join(fields, ", "))
		}
		return integrityError("%v", err)
	}
	if major, _, _ := strings.Cut(s.Version, "."); major != majorVersion() {
		return integrityError("unsupported snapshot version %q", s.Version)
	}
	if _, ok := domain.BackupFormats[s.Format]; !ok {
		return integrityError("unknown snapshot format %q", s.Format)
	}

	d := s.Data
	if err := uniqueIDs("bank", len(d.Banks), func(i int) int64 { return d.Banks[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("account", len(d.Accounts), func(i int) int64 { return d.Accounts[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("category", len(d.Categories), func(i int) int64 { return d.Categories[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("transaction", len(d.Transactions), func(i int) int64 { return d.Transactions[i].ID }); err != nil {
		return err
	}
	for _, a := range d.Accounts {
		if !a.InitialBalance.Valid {
			return integrityError("account %d has no initialBalance", a.ID)
		}
	}
	for _, t := range d.Transactions {
		if !t.Amount.Valid {
			return integrityError("transaction %d has no amount", t.ID)
		}
		if !t.Amount.Decimal.IsPositive() {
			return integrityError("transaction %d amount must be greater than zero", t.ID)
		}
		switch {
		case t.Type == domain.TransactionTransfer && t.ToAccountID == nil:
			return integrityError("transfer %d has no toAccountId", t.ID)
		case t.Type == domain.TransactionTransfer && *t.ToAccountID == t.AccountID:
			return integrityError("transfer %d moves money to its own account", t.ID)
		case t.Type != domain.TransactionTransfer && t.ToAccountID != nil:
			return integrityError("%s %d has a toAccountId", t.Type, t.ID)
		}
	}

	actual := map[string]int{
		domain.CountBanks:        len(d.Banks),
		domain.CountAccounts:     len(d.Accounts),
		domain.CountCategories:   len(d.Categories),
		domain.CountTransactions: len(d.Transactions),
	}
	for _, key := range domain.RecordCountKeys {
		want, ok := d.Metadata.RecordCounts[key]
		if !ok {
			return integrityError("record count for %s is missing", key)
		}
		if got := actual[key]; got != want {
			return integrityError("record count mismatch for %s: metadata says %d, found %d", key, want, got)
		}
	}
	return nil
}

func majorVersion() string {
	major, _, _ := strings.Cut(domain.SnapshotVersion, ".")
	return major
}

func uniqueIDs(kind string, n int, id func(int) int64) error {
	seen := make(map[int64]struct{}, n)
	for i := 0; i < n; i++ {
		if _, dup := seen[id(i)]; dup {
			return integrityError("duplicate %s id %d", kind, id(i))
		}
		seen[id(i)] = struct{}{}
	}
	return nil
}
