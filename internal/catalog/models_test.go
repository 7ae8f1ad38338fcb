package catalog

import "testing"

func TestEntryID(t *testing.T) {
	e := Entry{Server: "fs", Tool: Tool{Name: "read_file"}}
	if got := e.ID(); got != "fs/read_file" {
		t.Errorf("ID() = %q, want fs/read_file", got)
	}
}

func TestEntryValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{"valid", Entry{Server: "fs", Tool: Tool{Name: "read_file"}}, false},
		{"valid without description", Entry{Server: "net", Tool: Tool{Name: "fetch_url"}}, false},
		{"empty server", Entry{Server: "", Tool: Tool{Name: "read_file"}}, true},
		{"blank server", Entry{Server: "   ", Tool: Tool{Name: "read_file"}}, true},
		{"empty tool name", Entry{Server: "fs", Tool: Tool{Name: ""}}, true},
		{"blank tool name", Entry{Server: "fs", Tool: Tool{Name: "\t"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
