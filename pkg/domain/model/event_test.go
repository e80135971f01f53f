package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/warden/pkg/domain/model"
	"github.com/m-mizutani/warden/pkg/domain/types"
)

func TestPullRequestNumberFromEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
		wantErr bool
	}{
		{
			name:    "webhook style payload",
			payload: `{"action":"opened","pull_request":{"number":42}}`,
			want:    42,
		},
		{
			name:    "workflow_dispatch style payload",
			payload: `{"number":7}`,
			want:    7,
		},
		{
			name:    "nested number wins over top-level",
			payload: `{"number":1,"pull_request":{"number":42}}`,
			want:    42,
		},
		{
			name:    "no number present",
			payload: `{"action":"opened"}`,
			wantErr: true,
		},
		{
			name:    "zero number is rejected",
			payload: `{"pull_request":{"number":0}}`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			payload: `{not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.PullRequestNumberFromEvent([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Fatalf("PullRequestNumberFromEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !goerr.HasTag(err, types.ErrTagInvalidArgument) {
					t.Errorf("error is not tagged as invalid argument: %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("PullRequestNumberFromEvent() = %d, want %d", got, tt.want)
			}
		})
	}
}
