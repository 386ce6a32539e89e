package codetables

import "testing"

func TestLoadCodeTableFlatShape(t *testing.T) {
	table, err := LoadCodeTable("futansha_type")
	if err != nil {
		t.Fatalf("LoadCodeTable() error: %v", err)
	}
	if table["1"] != "医療保険" {
		t.Errorf("futansha_type[1] = %q", table["1"])
	}
}

func TestLoadCodeTableListShape(t *testing.T) {
	table, err := LoadCodeTable("jushin_kubun")
	if err != nil {
		t.Fatalf("LoadCodeTable() error: %v", err)
	}
	if table["1"] != "初回受診" {
		t.Errorf("jushin_kubun[1] = %q", table["1"])
	}
}

func TestLoadCodeTableUnknownName(t *testing.T) {
	if _, err := LoadCodeTable("no_such_table"); err == nil {
		t.Fatal("expected an error for an unknown table name")
	}
}

func TestParseCodeTableListDefaults(t *testing.T) {
	table, err := parseCodeTable([]byte(`[{"code":"9"},{"code":"","label":"skipped"}]`))
	if err != nil {
		t.Fatalf("parseCodeTable() error: %v", err)
	}
	if table["9"] != "9" {
		t.Errorf("entry without a label should fall back to the code, got %q", table["9"])
	}
	if len(table) != 1 {
		t.Errorf("entry without a code should be dropped, table = %v", table)
	}
}

func TestParseCodeTableBadShape(t *testing.T) {
	if _, err := parseCodeTable([]byte(`"just a string"`)); err == nil {
		t.Fatal("expected an error for an unsupported JSON shape")
	}
}

func TestReceiptTypeTable(t *testing.T) {
	table, err := ReceiptTypeTable()
	if err != nil {
		t.Fatalf("ReceiptTypeTable() error: %v", err)
	}
	info, ok := table["1112"]
	if !ok {
		t.Fatal("code 1112 missing from receipt type table")
	}
	if info.NyuinKbn != "入院外" {
		t.Errorf("1112 NyuinKbn = %q", info.NyuinKbn)
	}
	if info.Description == "" {
		t.Error("1112 has no description")
	}
}

func TestReceiptTypeAccessors(t *testing.T) {
	if got := ReceiptTypeInout("1111"); got != "入院" {
		t.Errorf("ReceiptTypeInout(1111) = %q", got)
	}
	if got := ReceiptTypeInout(" 1112 "); got != "入院外" {
		t.Errorf("ReceiptTypeInout with surrounding spaces = %q", got)
	}
	if got := ReceiptTypeInout("9999"); got != "" {
		t.Errorf("unknown code should yield empty, got %q", got)
	}
	if got := ReceiptTypeDescription("9999"); got != "" {
		t.Errorf("unknown code should yield empty description, got %q", got)
	}
}

func TestAllBundledTablesLoad(t *testing.T) {
	for name := range map[string]string{
		"futansha_type": "", "kakunin_kubun": "", "jushin_kubun": "",
		"madoguchi_kbn": "", "shinryokamei": "",
	} {
		table, err := LoadCodeTable(name)
		if err != nil {
			t.Errorf("table %s failed to load: %v", name, err)
			continue
		}
		if len(table) == 0 {
			t.Errorf("table %s is empty", name)
		}
	}
}
