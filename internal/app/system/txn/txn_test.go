package txn

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "generic error",
			err:  errors.New("some random error"),
			want: false,
		},
		{
			name: "command error code 20",
			err:  mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"},
			want: true,
		},
		{
			name: "command error code 51",
			err:  mongo.CommandError{Code: 51, Message: "Illegal operation"},
			want: true,
		},
		{
			name: "command error code 263",
			err:  mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"},
			want: true,
		},
		{
			name: "other command error code",
			err:  mongo.CommandError{Code: 100, Message: "Some other error"},
			want: false,
		},
		{
			name: "error with transaction and replica set keywords",
			err:  errors.New("transaction failed because this is not a replica set member"),
			want: true,
		},
		{
			name: "error with session and not supported keywords",
			err:  errors.New("session operations are not supported on this server"),
			want: true,
		},
		{
			name: "error with only one keyword",
			err:  errors.New("transaction failed"),
			want: false,
		},
		{
			name: "error with transaction and session",
			err:  errors.New("cannot start transaction in current session state"),
			want: true,
		},
		{
			name: "error with illegal operation keywords",
			err:  errors.New("illegal operation during transaction"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsNotSupported(tt.err)
			if got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestPaired_Fallback_BothSucceed(t *testing.T) {
	r := &Runner{Log: zap.NewNop()}
	var firstRan, secondRan, undoRan bool

	err := r.Paired(context.Background(),
		func(ctx context.Context) error { firstRan = true; return nil },
		func(ctx context.Context) error { secondRan = true; return nil },
		func(ctx context.Context) error { undoRan = true; return nil },
	)
	if err != nil {
		t.Fatalf("Paired failed: %v", err)
	}
	if !firstRan || !secondRan {
		t.Error("expected both writes to run")
	}
	if undoRan {
		t.Error("undo should not run on success")
	}
}

func TestPaired_Fallback_SecondFailsUndoesFirst(t *testing.T) {
	r := &Runner{Log: zap.NewNop()}
	boom := errors.New("second write failed")
	var undoRan bool

	err := r.Paired(context.Background(),
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error { undoRan = true; return nil },
	)
	if !errors.Is(err, boom) {
		t.Errorf("expected second-write error, got %v", err)
	}
	if !undoRan {
		t.Error("expected compensating undo of the first write")
	}
}

func TestPaired_Fallback_FirstFailsSkipsSecond(t *testing.T) {
	r := &Runner{Log: zap.NewNop()}
	boom := errors.New("first write failed")
	var secondRan, undoRan bool

	err := r.Paired(context.Background(),
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error { secondRan = true; return nil },
		func(ctx context.Context) error { undoRan = true; return nil },
	)
	if !errors.Is(err, boom) {
		t.Errorf("expected first-write error, got %v", err)
	}
	if secondRan || undoRan {
		t.Error("neither second write nor undo should run when the first write fails")
	}
}

func TestPaired_Fallback_UndoFailureStillReturnsWriteError(t *testing.T) {
	r := &Runner{Log: zap.NewNop()}
	boom := errors.New("second write failed")

	err := r.Paired(context.Background(),
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return boom },
		func(ctx context.Context) error { return errors.New("undo also failed") },
	)
	if !errors.Is(err, boom) {
		t.Errorf("expected the original write error, got %v", err)
	}
}
