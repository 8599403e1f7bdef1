package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	ErrWrongPassword = errors.New("incorrect password")
	ErrEmptyPassword = errors.New("password must not be empty")
)

// aesKeyLength is the AES key size used for new encryption.
const aesKeyLength = 256

// DefaultPasswords is the ordered dictionary tried when unlocking without a
// password. The empty password comes first.
func DefaultPasswords() []string {
	return []string{
		"", "password", "123456", "admin", "user", "1234", "12345", "12345678", "qwerty", "abc123",
		"0000", "1111", "2222", "3333", "4444", "5555", "6666", "7777", "8888", "9999",
		"admin123", "password123", "welcome", "welcome123", "test", "test123", "guest", "guest123",
		"default", "default123", "user123", "admin1234", "password1234", "123456789", "1234567890",
		"qwerty123", "qwerty1234", "qwertyuiop", "asdfghjk", "zxcvbnm",
		"qwerty1", "qwerty12", "qwerty12345", "qwerty123456", "qwerty1234567", "qwerty12345678",
		"qwerty123456789", "qwerty1234567890",
		"qwertyuiop123", "qwertyuiop1234", "qwertyuiop12345", "qwertyuiop123456", "qwertyuiop1234567",
		"qwertyuiop12345678", "qwertyuiop123456789", "qwertyuiop1234567890",
		"asdfghjk123", "asdfghjk1234", "asdfghjk12345", "asdfghjk123456", "asdfghjk1234567",
		"asdfghjk12345678", "asdfghjk123456789", "asdfghjk1234567890",
		"zxcvbnm123", "zxcvbnm1234", "zxcvbnm12345", "zxcvbnm123456", "zxcvbnm1234567",
		"zxcvbnm12345678", "zxcvbnm123456789", "zxcvbnm1234567890",
		"qwerty1!", "qwerty12!", "qwerty123!", "qwerty1234!", "qwerty12345!", "qwerty123456!",
		"qwerty1234567!", "qwerty12345678!", "qwerty123456789!", "qwerty1234567890!",
	}
}

// Encrypt protects in with AES-256, using password as both the user and
// the owner password.
func (e *Engine) Encrypt(in []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	conf := model.NewAESConfiguration(password, password, aesKeyLength)
	conf.ValidationMode = model.ValidationRelaxed
	return run(in, "encrypt PDF", func(rs io.ReadSeeker, w io.Writer) error {
		return pdfapi.Encrypt(rs, w, conf)
	})
}

// IsEncrypted reports whether in carries an encryption dictionary. Documents
// that need a non-empty user password report true with a nil error.
func (e *Engine) IsEncrypted(in []byte) (bool, error) {
	ctx, err := pdfapi.ReadContext(bytes.NewReader(in), e.config())
	if err != nil {
		if isWrongPassword(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read PDF: %w", err)
	}
	return ctx.E != nil, nil
}

// Decrypt removes encryption using password as user or owner password.
// Unencrypted input is re-serialised and returned.
func (e *Engine) Decrypt(in []byte, password string) ([]byte, error) {
	conf := e.config()
	conf.UserPW = password
	conf.OwnerPW = password

	ctx, err := pdfapi.ReadContext(bytes.NewReader(in), conf)
	if err != nil {
		if isWrongPassword(err) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if ctx.E == nil {
		return e.Optimize(in)
	}

	out, err := run(in, "decrypt PDF", func(rs io.ReadSeeker, w io.Writer) error {
		return pdfapi.Decrypt(rs, w, conf)
	})
	if err != nil && isWrongPassword(err) {
		return nil, ErrWrongPassword
	}
	return out, err
}

// Unlock decrypts in with password when one is given. Otherwise it tries
// dictionary in order and reports the entry that worked. A read failure
// unrelated to the password stops the search.
func (e *Engine) Unlock(in []byte, password string, dictionary []string) ([]byte, string, error) {
	if password != "" {
		out, err := e.Decrypt(in, password)
		if err != nil {
			return nil, "", err
		}
		return out, password, nil
	}

	for _, candidate := range dictionary {
		out, err := e.Decrypt(in, candidate)
		if err == nil {
			return out, candidate, nil
		}
		if !errors.Is(err, ErrWrongPassword) {
			return nil, "", err
		}
	}
	return nil, "", ErrWrongPassword
}

func isWrongPassword(err error) bool {
	if errors.Is(err, pdfcpu.ErrWrongPassword) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "password")
}
