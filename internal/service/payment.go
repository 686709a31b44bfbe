package service

import (
	"context"
	"errors"
	"fmt"

	"TON_rewards_miniapp/internal/repository"
)

// TonVerifier reports whether a matching recent transaction exists. A false
// result is "not yet confirmed", never a terminal failure.
type TonVerifier interface {
	VerifyPayment(ctx context.Context, fromAddress string, amountTON float64, toAddress string) bool
}

type PaymentService struct {
	users        UserRepository
	verifier     TonVerifier
	adminAddress string
}

func NewPaymentService(users UserRepository, verifier TonVerifier, adminAddress string) *PaymentService {
	return &PaymentService{
		users:        users,
		verifier:     verifier,
		adminAddress: adminAddress,
	}
}

// VerifyDeposit checks the explorer for a payment of at least amountTON from
// the given wallet to the admin wallet. With an empty walletAddress the
// user's connected wallet is used.
func (s *PaymentService) VerifyDeposit(ctx context.Context, telegramID int64, walletAddress string, amountTON float64) (bool, error) {
	if walletAddress == "" {
		user, err := s.users.GetUserByTelegramID(ctx, telegramID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return false, ErrUserNotFound
			}
			return false, fmt.Errorf("failed to resolve user: %w", err)
		}
		if user.WalletAddress == nil || *user.WalletAddress == "" {
			return false, ErrWalletNotConnected
		}
		walletAddress = *user.WalletAddress
	}

	if amountTON <= 0 {
		return false, errors.New("amount must be positive")
	}

	return s.verifier.VerifyPayment(ctx, walletAddress, amountTON, s.adminAddress), nil
}
