// Package netspace manages the pool of host addresses in one private IPv4
// network. A Space hands out unused addresses and records addresses that
// are already taken, failing on collisions and exhaustion.
package netspace

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"slices"

	"github.com/netorganizer/netorg/pkg/errors"
)

// Space is a private IPv4 network and the subset of its hosts in use.
// A Space is not safe for concurrent use.
type Space struct {
	cidr   string
	prefix netip.Prefix
	first  uint32 // first usable host
	last   uint32 // last usable host
	next   uint32 // every host below next is used
	used   map[uint32]struct{}
}

// New creates a Space from a CIDR such as "192.168.128.0/24".
//
// The CIDR must denote a network (host bits zero) inside RFC 1918 private
// address space. The network and broadcast addresses are not usable hosts,
// except in /31 and /32 networks where every address is a host.
func New(cidr string) (*Space, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, errors.NewAddressError("parse", cidr, "", fmt.Errorf("%w: %v", errors.ErrInvalidInput, err))
	}
	if !prefix.Addr().Is4() {
		return nil, errors.NewAddressError("parse", cidr, "", fmt.Errorf("%w: not an IPv4 network", errors.ErrInvalidRange))
	}
	if prefix.Masked() != prefix {
		return nil, errors.NewAddressError("parse", cidr, "", fmt.Errorf("%w: host bits set", errors.ErrInvalidInput))
	}

	network := toUint32(prefix.Addr())
	broadcast := network | hostMask(prefix.Bits())
	if !fromUint32(network).IsPrivate() || !fromUint32(broadcast).IsPrivate() {
		return nil, errors.NewAddressError("parse", cidr, "", fmt.Errorf("%w: not private address space", errors.ErrInvalidRange))
	}

	s := &Space{
		cidr:   prefix.String(),
		prefix: prefix,
		first:  network,
		last:   broadcast,
		used:   make(map[uint32]struct{}),
	}
	if prefix.Bits() < 31 {
		s.first++
		s.last--
	}
	s.next = s.first
	return s, nil
}

// CIDR returns the network in canonical form.
func (s *Space) CIDR() string {
	return s.cidr
}

// Size returns the number of usable host addresses.
func (s *Space) Size() int {
	return int(s.last-s.first) + 1
}

// Contains reports whether ip is a usable host of the space.
func (s *Space) Contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return false
	}
	n := toUint32(addr)
	return n >= s.first && n <= s.last
}

// Allocate marks the lowest unused host as used and returns it.
func (s *Space) Allocate() (string, error) {
	for n := s.next; n <= s.last; n++ {
		if !s.isUsed(n) {
			s.used[n] = struct{}{}
			s.next = n + 1
			return fromUint32(n).String(), nil
		}
	}
	s.next = s.last + 1
	return "", errors.NewAddressError("allocate", s.cidr, "", errors.ErrNetworkExhausted)
}

// AllocateSpecific marks ip as used. It fails if ip is not a host of the
// space or is already used.
func (s *Space) AllocateSpecific(ip string) (string, error) {
	if !s.Contains(ip) {
		return "", errors.NewAddressError("allocate-specific", s.cidr, ip,
			fmt.Errorf("%w: address outside network", errors.ErrInvalidInput))
	}
	n := toUint32(netip.MustParseAddr(ip))
	if s.isUsed(n) {
		return "", errors.NewAddressError("allocate-specific", s.cidr, ip, errors.ErrAddressInUse)
	}
	s.used[n] = struct{}{}
	return fromUint32(n).String(), nil
}

// Addresses returns every usable host in ascending order.
func (s *Space) Addresses() []string {
	out := make([]string, 0, s.Size())
	for n := s.first; n <= s.last; n++ {
		out = append(out, fromUint32(n).String())
	}
	return out
}

// Used returns the used hosts in ascending order.
func (s *Space) Used() []string {
	nums := make([]uint32, 0, len(s.used))
	for n := range s.used {
		nums = append(nums, n)
	}
	slices.Sort(nums)

	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = fromUint32(n).String()
	}
	return out
}

// Unused returns the hosts still available, in ascending order.
func (s *Space) Unused() []string {
	out := make([]string, 0, s.Size()-len(s.used))
	for n := s.first; n <= s.last; n++ {
		if !s.isUsed(n) {
			out = append(out, fromUint32(n).String())
		}
	}
	return out
}

func (s *Space) isUsed(n uint32) bool {
	_, ok := s.used[n]
	return ok
}

func hostMask(bits int) uint32 {
	if bits >= 32 {
		return 0
	}
	return ^uint32(0) >> bits
}

func toUint32(addr netip.Addr) uint32 {
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:])
}

func fromUint32(n uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return netip.AddrFrom4(b)
}
