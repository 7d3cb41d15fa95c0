package server

import "testing"

func testUser(id string) *User {
	return &User{ID: id, client: &Client{send: make(chan []byte, 16)}}
}

func TestUserRegistryRegisterLookup(t *testing.T) {
	r := newUserRegistry()
	u := testUser("alice")

	r.register(u)
	got, ok := r.lookup("alice")
	if !ok || got != u {
		t.Fatalf("lookup() = %v, %v; want registered user", got, ok)
	}
	if r.count() != 1 {
		t.Errorf("count() = %d, want 1", r.count())
	}
}

func TestUserRegistryRemoveIdempotent(t *testing.T) {
	r := newUserRegistry()
	u := testUser("alice")
	r.register(u)

	r.remove("alice")
	if _, ok := r.lookup("alice"); ok {
		t.Error("user still present after remove")
	}

	// Removing an absent id must be a no-op.
	r.remove("alice")
	r.remove("never-registered")
	if r.count() != 0 {
		t.Errorf("count() = %d, want 0", r.count())
	}
}

func TestChannelRegistryGetOrCreate(t *testing.T) {
	r := newChannelRegistry()

	if _, ok := r.resolve("lobby"); ok {
		t.Fatal("resolve() found channel in empty registry")
	}

	c := r.getOrCreate("lobby")
	if c.Name != "lobby" {
		t.Errorf("Name = %q, want %q", c.Name, "lobby")
	}
	if again := r.getOrCreate("lobby"); again != c {
		t.Error("getOrCreate() created a second channel for the same name")
	}
}

func TestChannelJoinPreservesOrderAndDeduplicates(t *testing.T) {
	r := newChannelRegistry()
	c := r.getOrCreate("lobby")
	a, b := testUser("a"), testUser("b")

	if !r.join(c, a) {
		t.Error("join(a) = false, want true")
	}
	if !r.join(c, b) {
		t.Error("join(b) = false, want true")
	}
	if r.join(c, a) {
		t.Error("duplicate join(a) = true, want false")
	}

	members := c.memberSnapshot()
	if len(members) != 2 || members[0] != a || members[1] != b {
		t.Errorf("members = %v, want [a b] in join order", members)
	}
}

func TestChannelLeaveDeletesEmptyChannel(t *testing.T) {
	r := newChannelRegistry()
	c := r.getOrCreate("lobby")
	a, b := testUser("a"), testUser("b")
	r.join(c, a)
	r.join(c, b)

	if !r.leave(c, a) {
		t.Error("leave(a) = false, want true")
	}
	if _, ok := r.resolve("lobby"); !ok {
		t.Fatal("channel deleted while still having members")
	}

	if !r.leave(c, b) {
		t.Error("leave(b) = false, want true")
	}
	if _, ok := r.resolve("lobby"); ok {
		t.Error("empty channel not deleted from registry")
	}
	if r.count() != 0 {
		t.Errorf("count() = %d, want 0", r.count())
	}
}

func TestChannelLeaveNonMember(t *testing.T) {
	r := newChannelRegistry()
	c := r.getOrCreate("lobby")
	r.join(c, testUser("a"))

	if r.leave(c, testUser("stranger")) {
		t.Error("leave() of non-member = true, want false")
	}
}

func TestChannelsContaining(t *testing.T) {
	r := newChannelRegistry()
	a, b := testUser("a"), testUser("b")
	lobby := r.getOrCreate("lobby")
	dev := r.getOrCreate("dev")
	ops := r.getOrCreate("ops")
	r.join(lobby, a)
	r.join(dev, a)
	r.join(dev, b)
	r.join(ops, b)

	got := r.channelsContaining(a)
	if len(got) != 2 {
		t.Fatalf("channelsContaining(a) returned %d channels, want 2", len(got))
	}
	names := map[string]bool{}
	for _, c := range got {
		names[c.Name] = true
	}
	if !names["lobby"] || !names["dev"] {
		t.Errorf("channelsContaining(a) = %v, want lobby and dev", names)
	}
}
