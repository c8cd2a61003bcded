package hashalgo

import "testing"

func TestLookupKnownAlgorithms(t *testing.T) {
	cases := []struct {
		id         ID
		name       string
		digestSize int
	}{
		{SHA256, "sha256", 32},
		{SHA512, "sha512", 64},
		{Blake2b256, "blake2b-256", 32},
		{Blake2s256, "blake2s-256", 32},
	}
	for _, c := range cases {
		algo, ok := Lookup(c.id)
		if !ok {
			t.Fatalf("Lookup(%d): not found", c.id)
		}
		if algo.Name != c.name {
			t.Errorf("Lookup(%d).Name = %q, want %q", c.id, algo.Name, c.name)
		}
		if algo.DigestSize != c.digestSize {
			t.Errorf("Lookup(%d).DigestSize = %d, want %d", c.id, algo.DigestSize, c.digestSize)
		}
		if algo.New == nil {
			t.Fatalf("Lookup(%d).New is nil", c.id)
		}
		if h := algo.New(); h == nil {
			t.Fatalf("Lookup(%d).New() returned nil", c.id)
		}
	}
}

func TestLookupUnknownID(t *testing.T) {
	if _, ok := Lookup(0); ok {
		t.Fatal("Lookup(0): expected false for unregistered id")
	}
	if _, ok := Lookup(99); ok {
		t.Fatal("Lookup(99): expected false for unregistered id")
	}
}

func TestContextHashFullMatchesManualSteps(t *testing.T) {
	for _, id := range []ID{SHA256, SHA512, Blake2b256, Blake2s256} {
		algo, ok := Lookup(id)
		if !ok {
			t.Fatalf("Lookup(%d): not found", id)
		}
		ctx := NewContext(algo)
		data := []byte("the quick brown fox jumps over the lazy dog")

		manual := make([]byte, algo.DigestSize)
		ctx.Init()
		ctx.Update(data[:10])
		ctx.Update(data[10:])
		ctx.Final(manual)

		full := make([]byte, algo.DigestSize)
		ctx.HashFull(data, full)

		if string(manual) != string(full) {
			t.Errorf("algo %s: incremental and HashFull digests differ", algo.Name)
		}
		if len(full) != algo.DigestSize {
			t.Errorf("algo %s: digest length = %d, want %d", algo.Name, len(full), algo.DigestSize)
		}
	}
}

func TestContextResetsBetweenDigests(t *testing.T) {
	algo, _ := Lookup(SHA256)
	ctx := NewContext(algo)

	a := make([]byte, algo.DigestSize)
	ctx.HashFull([]byte("first"), a)

	b := make([]byte, algo.DigestSize)
	ctx.HashFull([]byte("second"), b)

	if string(a) == string(b) {
		t.Fatal("distinct inputs produced the same digest")
	}

	c := make([]byte, algo.DigestSize)
	ctx.HashFull([]byte("first"), c)
	if string(a) != string(c) {
		t.Fatal("same input after reuse produced a different digest")
	}
}

func TestDigestSizeMatchesAlgorithm(t *testing.T) {
	for _, id := range []ID{SHA256, SHA512, Blake2b256, Blake2s256} {
		algo, _ := Lookup(id)
		ctx := NewContext(algo)
		if ctx.DigestSize() != algo.DigestSize {
			t.Errorf("algo %s: Context.DigestSize() = %d, want %d", algo.Name, ctx.DigestSize(), algo.DigestSize)
		}
	}
}
