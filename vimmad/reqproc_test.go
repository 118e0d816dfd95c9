package main

import (
	"testing"
	"time"
)

func Test_retryDelay(t *testing.T) {
	type args struct {
		baseDelay time.Duration
		attempts  int
	}

	tests := []struct {
		name string
		args args
		want time.Duration
	}{
		{
			name: "firstRetry",
			args: args{baseDelay: 10 * time.Second, attempts: 0},
			want: 10 * time.Second,
		},
		{
			name: "secondRetry",
			args: args{baseDelay: 10 * time.Second, attempts: 1},
			want: 20 * time.Second,
		},
		{
			name: "sixthRetry",
			args: args{baseDelay: 10 * time.Second, attempts: 5},
			want: 320 * time.Second,
		},
		{
			name: "capped",
			args: args{baseDelay: 10 * time.Second, attempts: 20},
			want: 640 * time.Second,
		},
		{
			name: "zeroBase",
			args: args{baseDelay: 0, attempts: 3},
			want: 0,
		},
	}

	t.Parallel()

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := retryDelay(testCase.args.baseDelay, testCase.args.attempts)
			if got != testCase.want {
				t.Errorf("retryDelay() = %v, want %v", got, testCase.want)
			}
		})
	}
}

func Test_canRetry(t *testing.T) {
	type args struct {
		attempts   int
		maxRetries int
	}

	tests := []struct {
		name string
		args args
		want bool
	}{
		{
			name: "freshRequest",
			args: args{attempts: 0, maxRetries: 3},
			want: true,
		},
		{
			name: "lastRetryStillInBudget",
			args: args{attempts: 29, maxRetries: 30},
			want: true,
		},
		{
			name: "budgetSpent",
			args: args{attempts: 30, maxRetries: 30},
			want: false,
		},
		{
			name: "neverRetried",
			args: args{attempts: 0, maxRetries: 0},
			want: false,
		},
	}

	t.Parallel()

	for _, testCase := range tests {
		testCase := testCase // shadow to avoid loop variable capture
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := canRetry(testCase.args.attempts, testCase.args.maxRetries)
			if got != testCase.want {
				t.Errorf("canRetry() = %v, want %v", got, testCase.want)
			}
		})
	}
}
