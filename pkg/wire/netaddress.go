package wire

import (
	"io"
	"net"
)

const (
	// netAddressSize is the size of an address without timestamp:
	// services 8 + ip 16 + port 2.
	netAddressSize = 26

	// timedNetAddressSize adds the 4-byte timestamp carried in addr
	// messages.
	timedNetAddressSize = 30
)

// NetAddress defines information about a peer on the network including the
// time it was last seen, the services it supports, its IP address and port.
type NetAddress struct {
	// Last time the address was seen, in seconds since the epoch. It is
	// only on the wire in addr messages; version messages omit it.
	Timestamp uint32

	// Bitfield which identifies the services supported by the address.
	Services ServiceFlag

	// IP address of the peer. IPv4 addresses travel IPv6-mapped.
	IP net.IP

	// Port the peer is using. This is encoded in big endian on the wire
	// which differs from most everything else.
	Port uint16
}

// HasService returns whether the specified service is supported by the
// address.
func (na *NetAddress) HasService(service ServiceFlag) bool {
	return na.Services&service == service
}

// AddService adds service as a supported service by the peer generating the
// message.
func (na *NetAddress) AddService(service ServiceFlag) {
	na.Services |= service
}

// NewNetAddressIPPort returns a new NetAddress using the provided IP, port,
// and supported services with a zero timestamp.
func NewNetAddressIPPort(ip net.IP, port uint16, services ServiceFlag) *NetAddress {
	return &NetAddress{
		Services: services,
		IP:       ip,
		Port:     port,
	}
}

// readNetAddress reads an encoded NetAddress from r. ts selects the 30-byte
// form with a leading timestamp.
func readNetAddress(r io.Reader, na *NetAddress, ts bool) error {
	if ts {
		timestamp, err := readUint32(r, "address timestamp")
		if err != nil {
			return err
		}
		na.Timestamp = timestamp
	}

	services, err := readUint64(r, "address services")
	if err != nil {
		return err
	}

	var ip [16]byte
	if err := readFull(r, ip[:], "address ip"); err != nil {
		return err
	}

	port, err := readUint16BE(r, "address port")
	if err != nil {
		return err
	}

	na.Services = ServiceFlag(services)
	na.IP = net.IP(ip[:])
	na.Port = port
	return nil
}

// writeNetAddress serializes a NetAddress to w. ts selects the 30-byte form.
func writeNetAddress(w io.Writer, na *NetAddress, ts bool) error {
	if ts {
		if err := writeUint32(w, na.Timestamp); err != nil {
			return err
		}
	}

	if err := writeUint64(w, uint64(na.Services)); err != nil {
		return err
	}

	// Ensure to always write 16 bytes even if the ip is nil.
	var ip [16]byte
	if na.IP != nil {
		copy(ip[:], na.IP.To16())
	}
	if _, err := w.Write(ip[:]); err != nil {
		return err
	}

	return writeUint16BE(w, na.Port)
}
