package v1

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEnvelopeValidate(t *testing.T) {
	t.Parallel()

	valid := Envelope{
		V:       Version,
		Type:    TypeMove,
		ID:      "01HZXW0000000000000000000A",
		TS:      time.Now().UTC(),
		Payload: json.RawMessage(`{"san":"e4"}`),
	}

	cases := []struct {
		name    string
		mutate  func(*Envelope)
		wantErr bool
	}{
		{name: "valid move", mutate: func(*Envelope) {}, wantErr: false},
		{name: "valid without id and ts", mutate: func(e *Envelope) { e.ID = ""; e.TS = time.Time{} }, wantErr: false},
		{name: "missing version", mutate: func(e *Envelope) { e.V = "" }, wantErr: true},
		{name: "wrong version", mutate: func(e *Envelope) { e.V = "v2" }, wantErr: true},
		{name: "missing type", mutate: func(e *Envelope) { e.Type = "" }, wantErr: true},
		{name: "unknown type", mutate: func(e *Envelope) { e.Type = "chat" }, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := valid
			tc.mutate(&env)
			err := env.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate()=%v wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestAllServerTypesValidate(t *testing.T) {
	t.Parallel()

	for _, typ := range []string{
		TypeMove, TypePlayerRole, TypeGameStart, TypeBoardState,
		TypeInvalidMove, TypeGameOver, TypePlayerCount, TypeError,
	} {
		env := Envelope{V: Version, Type: typ}
		if err := env.Validate(); err != nil {
			t.Fatalf("type %q should validate: %v", typ, err)
		}
	}
}
