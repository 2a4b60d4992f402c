package models

import (
	"encoding/json"
	"testing"
)

func TestListIDs_ID(t *testing.T) {
	ids := ListIDs{Buy: "buy-1", Listen: "listen-1"}
	if got := ids.ID(ListBuy); got != "buy-1" {
		t.Errorf("ID(ListBuy) = %q, want %q", got, "buy-1")
	}
	if got := ids.ID(ListListen); got != "listen-1" {
		t.Errorf("ID(ListListen) = %q, want %q", got, "listen-1")
	}
}

func TestListKind_String(t *testing.T) {
	if ListBuy.String() != "buy" || ListListen.String() != "listen" {
		t.Errorf("unexpected names: %q, %q", ListBuy, ListListen)
	}
	if got := ListKind(7).String(); got != "ListKind(7)" {
		t.Errorf("String() = %q", got)
	}
}

func TestCardUpdate_JSON(t *testing.T) {
	tests := []struct {
		name string
		upd  CardUpdate
		want string
	}{
		{"archive", CardUpdate{Closed: true}, `{"closed":true}`},
		{"move", CardUpdate{IDList: "abc"}, `{"idList":"abc"}`},
		{"top", CardUpdate{Pos: "top"}, `{"pos":"top"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.upd)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("json = %s, want %s", data, tt.want)
			}
		})
	}
	if !(CardUpdate{}).IsZero() {
		t.Error("empty update should be zero")
	}
}
