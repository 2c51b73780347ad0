package raw

import "testing"

func TestConfGet(t *testing.T) {
	t.Setenv("LOG_LEVEL", " debug ")
	root := New()
	log := root.Prefix("LOG_")

	tests := []struct {
		name string
		conf Conf
		key  string
		def  string
		want string
	}{
		{name: "root full key", conf: root, key: "LOG_LEVEL", def: "x", want: "debug"},
		{name: "prefixed hit", conf: log, key: "LEVEL", def: "x", want: "debug"},
		{name: "missing returns default", conf: log, key: "MISSING", def: "defv", want: "defv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.Get(tt.key, tt.def); got != tt.want {
				t.Fatalf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestConfGetBool(t *testing.T) {
	c := New().Prefix("LOG_")
	for _, v := range []string{"1", "true", "YES", "on"} {
		t.Setenv("LOG_CALLER", v)
		if !c.GetBool("CALLER", false) {
			t.Fatalf("GetBool(%q) = false", v)
		}
	}
	t.Setenv("LOG_CALLER", "nope")
	if c.GetBool("CALLER", true) {
		t.Fatalf("GetBool(nope) = true")
	}
	if !c.GetBool("UNSET", true) {
		t.Fatalf("GetBool default not used")
	}
}

func TestConfGetInt(t *testing.T) {
	c := New().Prefix("LOG_")
	t.Setenv("LOG_SAMPLE_EVERY", "5")
	if got := c.GetInt("SAMPLE_EVERY", 0); got != 5 {
		t.Fatalf("GetInt = %d", got)
	}
	t.Setenv("LOG_SAMPLE_EVERY", "-3")
	if got := c.GetInt("SAMPLE_EVERY", 1); got != 1 {
		t.Fatalf("GetInt negative = %d", got)
	}
	t.Setenv("LOG_SAMPLE_EVERY", "x")
	if got := c.GetInt("SAMPLE_EVERY", 2); got != 2 {
		t.Fatalf("GetInt invalid = %d", got)
	}
}
