package backupcodec

import (
	"fmt"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/utils"
)

func randomBytes(n int) ([]byte, error) {
	b, err := utils.RandomBytes(n)
	if err != nil {
		return nil, fmt.Errorf("%w: read random bytes: %w", apperrors.ErrBackupIntegrity, err)
	}
	return b, nil
}
