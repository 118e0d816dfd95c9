package main

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"vimma/vimmad/expiration"
	"vimma/vimmad/notifier"
	"vimma/vimmad/vm"
)

func Test_notifyExpiry(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockNotifier := notifier.NewMockNotifier(ctrl)
	notifier.Set(mockNotifier)

	t.Cleanup(func() { notifier.Set(&notifier.SlogNotifier{}) })

	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

	aVM := &vm.VM{
		ID:        "3d29a063-40c3-4af8-9735-a559fa6199d7",
		Name:      "falling-frost-1234",
		ProjectID: "ca16e4fa-e431-45e8-8e5c-b9b107b11433",
	}

	t.Run("beforeExpiry", func(t *testing.T) {
		exp := &expiration.Expiration{ExpiresAt: now.Add(72 * time.Hour)}

		mockNotifier.EXPECT().
			Notify("dev@example.com", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ string, subject string, body string) error {
				if !strings.Contains(subject, "falling-frost-1234") {
					t.Errorf("subject %q does not name the VM", subject)
				}
				if !strings.Contains(subject, "expires") {
					t.Errorf("subject %q should say expires", subject)
				}
				if !strings.Contains(body, exp.ExpiresAt.Format(time.RFC3339)) {
					t.Errorf("body %q does not carry the expiry date", body)
				}

				return nil
			})

		notifyExpiry("dev@example.com", aVM, exp, now)
	})

	t.Run("afterExpiry", func(t *testing.T) {
		exp := &expiration.Expiration{ExpiresAt: now.Add(-24 * time.Hour)}

		mockNotifier.EXPECT().
			Notify("dev@example.com", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ string, subject string, _ string) error {
				if !strings.Contains(subject, "expired") {
					t.Errorf("subject %q should say expired", subject)
				}

				return nil
			})

		notifyExpiry("dev@example.com", aVM, exp, now)
	})
}
