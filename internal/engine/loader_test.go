package engine

import (
	"os"
	"strings"
	"testing"
)

func TestLoadRequests(t *testing.T) {
	csvContent := []byte(`value,from_unit,to_unit,domain
1,m,cm,length
-40, C ,F,temperature

2.5e3,g,kg,weight
1,l,gal,volume
`)

	tmpFile, err := os.CreateTemp("", "batch_*.csv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(csvContent); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}

	// 2. Run Loader
	reqs, err := LoadRequests(tmpFile.Name())
	if err != nil {
		t.Fatal(err)
	}

	// 3. Assertions (blank line skipped)
	if len(reqs) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(reqs))
	}
	if reqs[1].Value != -40 || reqs[1].From != "C" || reqs[1].Domain != Temperature {
		t.Errorf("Row 1: unexpected %+v", reqs[1])
	}
	if reqs[2].Value != 2500 {
		t.Errorf("Row 2 Value: Expected 2500, got %v", reqs[2].Value)
	}
	if reqs[3].To != "gal" || reqs[3].Domain != Volume {
		t.Errorf("Row 3: unexpected %+v", reqs[3])
	}
}

func TestParseRequestsCRLF(t *testing.T) {
	reqs, err := ParseRequests(strings.NewReader("value,from_unit,to_unit,domain\r\n1,km,m,length\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 1 || reqs[0].Domain != Length {
		t.Fatalf("Expected 1 length row, got %+v", reqs)
	}
}

func TestParseRequestsErrors(t *testing.T) {
	cases := map[string]string{
		"bad value":    "value,from_unit,to_unit,domain\n1,m,cm,length\nabc,m,cm,length\n",
		"few fields":   "value,from_unit,to_unit,domain\n1,m,length\n",
		"extra fields": "value,from_unit,to_unit,domain\n1,m,cm,length,x\n",
	}
	lines := map[string]string{"bad value": "line 3", "few fields": "line 2", "extra fields": "line 2"}

	for name, content := range cases {
		_, err := ParseRequests(strings.NewReader(content))
		if err == nil {
			t.Errorf("%s: Expected error", name)
			continue
		}
		if !strings.Contains(err.Error(), lines[name]) {
			t.Errorf("%s: Expected %q in %q", name, lines[name], err.Error())
		}
	}
}

func TestLoadRequestsMissingFile(t *testing.T) {
	if _, err := LoadRequests("does-not-exist.csv"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParseRequestsHeaderOnly(t *testing.T) {
	reqs, err := ParseRequests(strings.NewReader("value,from_unit,to_unit,domain"))
	if err != nil || len(reqs) != 0 {
		t.Errorf("Expected no rows, got %v (%v)", reqs, err)
	}
}
