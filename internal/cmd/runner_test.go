package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunForEachTarget(t *testing.T) {
	tests := []struct {
		name           string
		targets        []string
		fnResults      map[string]error
		wantErr        string
		wantOutContain []string
		wantOutExclude []string
	}{
		{
			name:           "single target prints no header",
			targets:        []string{localTarget},
			fnResults:      map[string]error{},
			wantOutExclude: []string{"local:"},
		},
		{
			name:           "multiple targets all succeed",
			targets:        []string{"autor-1", "autor-2", "autor-3"},
			fnResults:      map[string]error{},
			wantOutContain: []string{"autor-1:\n", "\n\nautor-2:\n", "\n\nautor-3:\n"},
		},
		{
			name:           "single target failure",
			targets:        []string{localTarget},
			fnResults:      map[string]error{localTarget: errors.New("failed to fetch author")},
			wantErr:        "fetch author failed on 1 target(s)",
			wantOutContain: []string{"Error: failed to fetch author"},
		},
		{
			name:    "partial failure",
			targets: []string{"autor-1", "autor-2", "autor-3"},
			fnResults: map[string]error{
				"autor-2": errors.New("timeout"),
			},
			wantErr:        "fetch author failed on 1 target(s)",
			wantOutContain: []string{"autor-2:\nError: timeout"},
		},
		{
			name:    "all fail",
			targets: []string{"autor-1", "autor-2"},
			fnResults: map[string]error{
				"autor-1": errors.New("error 1"),
				"autor-2": errors.New("error 2"),
			},
			wantErr: "fetch author failed on 2 target(s)",
		},
		{
			name:      "no targets",
			targets:   []string{},
			fnResults: map[string]error{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			var visited []string

			err := RunForEachTarget(context.Background(), &out, tt.targets, "fetch author", func(_ context.Context, target string) error {
				visited = append(visited, target)
				return tt.fnResults[target]
			})

			if tt.wantErr == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != "" && (err == nil || err.Error() != tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
			if len(visited) != len(tt.targets) {
				t.Errorf("visited %v, want %v", visited, tt.targets)
			}

			output := out.String()
			for _, want := range tt.wantOutContain {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q\nGot: %s", want, output)
				}
			}
			for _, unwanted := range tt.wantOutExclude {
				if strings.Contains(output, unwanted) {
					t.Errorf("output contains %q\nGot: %s", unwanted, output)
				}
			}
		})
	}
}

func TestRunForEachTargetContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RunForEachTarget(ctx, &bytes.Buffer{}, []string{"autor-1", "autor-2"}, "fetch author", func(context.Context, string) error {
		calls++
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected 0 calls, got %d", calls)
	}
}
