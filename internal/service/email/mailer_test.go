package email

import (
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"

	applogger "AssetRadar/pkg/logger"
	"AssetRadar/pkg/queue"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestSendDeliversInBackground(t *testing.T) {
	q := queue.New(testLogger(t), queue.WithWorkers(1))

	var mu sync.Mutex
	var gotTo []string
	var gotMsg string

	m := New(Config{
		Host:      "smtp.example.com",
		Port:      587,
		Address:   "from@example.com",
		Recipient: "to@example.com",
	}, q, nil, testLogger(t))
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		mu.Lock()
		defer mu.Unlock()
		gotTo = to
		gotMsg = string(msg)
		return nil
	}

	if err := m.Send("Daily report", "body text"); err != nil {
		t.Fatalf("send: %v", err)
	}
	q.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(gotTo) != 1 || gotTo[0] != "to@example.com" {
		t.Fatalf("recipients %v", gotTo)
	}
	if !strings.Contains(gotMsg, "Subject: Daily report") {
		t.Fatalf("message missing subject: %q", gotMsg)
	}
	if !strings.Contains(gotMsg, "body text") {
		t.Fatalf("message missing body: %q", gotMsg)
	}
}

func TestDeliveryFailureDoesNotPropagate(t *testing.T) {
	q := queue.New(testLogger(t), queue.WithWorkers(1))

	m := New(Config{Host: "smtp.example.com", Port: 587}, q, nil, testLogger(t))
	m.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return errors.New("connection refused")
	}

	// Enqueue succeeds even though delivery will fail.
	if err := m.Send("subject", "body"); err != nil {
		t.Fatalf("send: %v", err)
	}
	q.Close()
}
