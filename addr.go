package adsmux

import "github.com/mrpasztoradam/adsmux/ams"

// ParseTargetAddr builds the AMS address of the device to talk to from its
// dotted NetId and AMS port, the external constructor shape the protocol
// exposes (dest_net_id, dest_port). A malformed NetId fails with
// ERR_INTERNAL rather than a bare parse error, since nothing downstream of
// a destination address can be resolved without one.
func ParseTargetAddr(netID string, port uint16) (ams.Addr, error) {
	id, err := ams.ParseAmsNetID(netID)
	if err != nil {
		return ams.Addr{}, adsErrorFromAms(err)
	}
	return ams.Addr{NetID: id, Port: port}, nil
}
