// Package server keeps the two authoritative in-memory tables of the relay:
// who is online, and who is in what channel. Both tables are owned by the hub
// event loop and are only ever touched from that goroutine, so neither needs
// a lock.
package server

// User represents one connected client for its connected lifetime. It is
// owned by the user registry; channel membership lists reference it without
// owning it.
type User struct {
	ID     string
	Addr   string
	client *Client
}

// Channel is a named group of users. Membership order is insertion order and
// is significant: it is the broadcast delivery order and the order a new
// joiner receives the existing-member roster.
type Channel struct {
	Name    string
	members []*User
}

// contains reports whether u is currently a member.
func (c *Channel) contains(u *User) bool {
	for _, m := range c.members {
		if m == u {
			return true
		}
	}
	return false
}

// memberSnapshot returns a copy of the membership list. Broadcast fan-out
// iterates the snapshot so that a member dropped mid-delivery does not
// perturb the iteration.
func (c *Channel) memberSnapshot() []*User {
	return append([]*User(nil), c.members...)
}

// userRegistry maps user ids to live users.
type userRegistry struct {
	users map[string]*User
}

func newUserRegistry() *userRegistry {
	return &userRegistry{users: make(map[string]*User)}
}

// register inserts a user. Identifiers come from the identity generator, so a
// collision among connected users is treated as unreachable.
func (r *userRegistry) register(u *User) {
	r.users[u.ID] = u
}

func (r *userRegistry) lookup(id string) (*User, bool) {
	u, ok := r.users[id]
	return u, ok
}

// remove deletes a user entry. Removing an absent id is a no-op.
func (r *userRegistry) remove(id string) {
	delete(r.users, id)
}

func (r *userRegistry) count() int {
	return len(r.users)
}

// channelRegistry maps channel names to channels. A channel is present iff
// its membership is non-empty; every removal path deletes a channel the
// moment its last member leaves.
type channelRegistry struct {
	channels map[string]*Channel
}

func newChannelRegistry() *channelRegistry {
	return &channelRegistry{channels: make(map[string]*Channel)}
}

func (r *channelRegistry) resolve(name string) (*Channel, bool) {
	c, ok := r.channels[name]
	return c, ok
}

// getOrCreate returns the named channel, creating an empty one if absent.
func (r *channelRegistry) getOrCreate(name string) *Channel {
	if c, ok := r.channels[name]; ok {
		return c
	}
	c := &Channel{Name: name}
	r.channels[name] = c
	return c
}

// join appends u to the channel unless it is already a member, so a user
// appears at most once in any membership list. It reports whether the
// membership changed.
func (r *channelRegistry) join(c *Channel, u *User) bool {
	if c.contains(u) {
		return false
	}
	c.members = append(c.members, u)
	return true
}

// leave removes the first occurrence of u from the channel and reports
// whether it was a member. A channel left empty is deleted from the registry.
func (r *channelRegistry) leave(c *Channel, u *User) bool {
	for i, m := range c.members {
		if m == u {
			c.members = append(c.members[:i], c.members[i+1:]...)
			if len(c.members) == 0 {
				delete(r.channels, c.Name)
			}
			return true
		}
	}
	return false
}

// channelsContaining returns every channel u belongs to. Used only on the
// disconnect path to visit the departing user's channels.
func (r *channelRegistry) channelsContaining(u *User) []*Channel {
	var found []*Channel
	for _, c := range r.channels {
		if c.contains(u) {
			found = append(found, c)
		}
	}
	return found
}

func (r *channelRegistry) count() int {
	return len(r.channels)
}
