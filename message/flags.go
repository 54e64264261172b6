package message

import (
	"fmt"
	"strings"
)

// ActionFlags is a bitfield of post-negotiation modification capabilities a
// filter may exercise in the PostEOM phase. Bit layout matches the
// SMFIF_* constants of the libmilter wire protocol.
type ActionFlags uint32

const (
	ActionAddHeaders    ActionFlags = 1 << 0 // SMFIF_ADDHDRS
	ActionChangeBody    ActionFlags = 1 << 1 // SMFIF_CHGBODY
	ActionAddRcpt       ActionFlags = 1 << 2 // SMFIF_ADDRCPT
	ActionDelRcpt       ActionFlags = 1 << 3 // SMFIF_DELRCPT
	ActionChangeHeaders ActionFlags = 1 << 4 // SMFIF_CHGHDRS
	ActionQuarantine    ActionFlags = 1 << 5 // SMFIF_QUARANTINE
	ActionChangeFrom    ActionFlags = 1 << 6 // SMFIF_CHGFROM [v6]
	ActionAddRcptPar    ActionFlags = 1 << 7 // SMFIF_ADDRCPT_PAR [v6]
	ActionSetSymList    ActionFlags = 1 << 8 // SMFIF_SETSYMLIST [v6]

	ActionNone ActionFlags = 0
	ActionAll  ActionFlags = 0x1ff
)

var actionFlagNames = []struct {
	flag ActionFlags
	name string
}{
	{ActionAddHeaders, "ADD_HEADERS"},
	{ActionChangeBody, "CHANGE_BODY"},
	{ActionAddRcpt, "ADD_RCPT"},
	{ActionDelRcpt, "DEL_RCPT"},
	{ActionChangeHeaders, "CHANGE_HEADERS"},
	{ActionQuarantine, "QUARANTINE"},
	{ActionChangeFrom, "CHANGE_FROM"},
	{ActionAddRcptPar, "ADD_RCPT_PAR"},
	{ActionSetSymList, "SETSYMLIST"},
}

// String renders the set bits as a pipe-joined list of flag names, and notes
// any bit outside the known set.
func (f ActionFlags) String() string {
	return flagString(uint32(f), func(bit uint32) (string, bool) {
		for _, e := range actionFlagNames {
			if uint32(e.flag) == bit {
				return e.name, true
			}
		}
		return "", false
	})
}

// ProtocolFlags is a bitfield of negotiable protocol behaviours, matching
// the SMFIP_* constants of the libmilter wire protocol.
type ProtocolFlags uint32

const (
	ProtocolNoConnect      ProtocolFlags = 1 << 0  // SMFIP_NOCONNECT
	ProtocolNoHelo         ProtocolFlags = 1 << 1  // SMFIP_NOHELO
	ProtocolNoMailFrom     ProtocolFlags = 1 << 2  // SMFIP_NOMAIL
	ProtocolNoRcptTo       ProtocolFlags = 1 << 3  // SMFIP_NORCPT
	ProtocolNoBody         ProtocolFlags = 1 << 4  // SMFIP_NOBODY
	ProtocolNoHeaders      ProtocolFlags = 1 << 5  // SMFIP_NOHDRS
	ProtocolNoEOH          ProtocolFlags = 1 << 6  // SMFIP_NOEOH
	ProtocolNRHeader       ProtocolFlags = 1 << 7  // SMFIP_NR_HDR
	ProtocolNoUnknown      ProtocolFlags = 1 << 8  // SMFIP_NOUNKNOWN
	ProtocolNoData         ProtocolFlags = 1 << 9  // SMFIP_NODATA
	ProtocolSkip           ProtocolFlags = 1 << 10 // SMFIP_SKIP [v6]
	ProtocolRcptRej        ProtocolFlags = 1 << 11 // SMFIP_RCPT_REJ [v6]
	ProtocolNRConnect      ProtocolFlags = 1 << 12 // SMFIP_NR_CONN [v6]
	ProtocolNRHelo         ProtocolFlags = 1 << 13 // SMFIP_NR_HELO [v6]
	ProtocolNRMailFrom     ProtocolFlags = 1 << 14 // SMFIP_NR_MAIL [v6]
	ProtocolNRRcptTo       ProtocolFlags = 1 << 15 // SMFIP_NR_RCPT [v6]
	ProtocolNRData         ProtocolFlags = 1 << 16 // SMFIP_NR_DATA [v6]
	ProtocolNRUnknown      ProtocolFlags = 1 << 17 // SMFIP_NR_UNKN [v6]
	ProtocolNREOH          ProtocolFlags = 1 << 18 // SMFIP_NR_EOH [v6]
	ProtocolNRBody         ProtocolFlags = 1 << 19 // SMFIP_NR_BODY [v6]
	ProtocolHeaderLeadSpc  ProtocolFlags = 1 << 20 // SMFIP_HDR_LEADSPC [v6]
	ProtocolMaxDataSize256K ProtocolFlags = 1 << 28 // SMFIP_MDS_256K
	ProtocolMaxDataSize1M   ProtocolFlags = 1 << 29 // SMFIP_MDS_1M

	ProtocolNone ProtocolFlags = 0

	// ProtocolMaxDataSizeUnlimited is the combination that signals no cap on
	// a single frame's data size, matching the "both MDS bits set" encoding
	// the wire protocol uses instead of a dedicated bit.
	ProtocolMaxDataSizeUnlimited = ProtocolMaxDataSize256K | ProtocolMaxDataSize1M
)

var protocolFlagNames = []struct {
	flag ProtocolFlags
	name string
}{
	{ProtocolNoConnect, "NOCONNECT"},
	{ProtocolNoHelo, "NOHELO"},
	{ProtocolNoMailFrom, "NOMAIL"},
	{ProtocolNoRcptTo, "NORCPT"},
	{ProtocolNoBody, "NOBODY"},
	{ProtocolNoHeaders, "NOHDRS"},
	{ProtocolNoEOH, "NOEOH"},
	{ProtocolNRHeader, "NR_HDR"},
	{ProtocolNoUnknown, "NOUNKNOWN"},
	{ProtocolNoData, "NODATA"},
	{ProtocolSkip, "SKIP"},
	{ProtocolRcptRej, "RCPT_REJ"},
	{ProtocolNRConnect, "NR_CONN"},
	{ProtocolNRHelo, "NR_HELO"},
	{ProtocolNRMailFrom, "NR_MAIL"},
	{ProtocolNRRcptTo, "NR_RCPT"},
	{ProtocolNRData, "NR_DATA"},
	{ProtocolNRUnknown, "NR_UNKN"},
	{ProtocolNREOH, "NR_EOH"},
	{ProtocolNRBody, "NR_BODY"},
	{ProtocolHeaderLeadSpc, "HDR_LEADSPC"},
	{ProtocolMaxDataSize256K, "MDS_256K"},
	{ProtocolMaxDataSize1M, "MDS_1M"},
}

// String renders the set bits as a pipe-joined list of flag names, and notes
// any bit outside the known set.
func (f ProtocolFlags) String() string {
	return flagString(uint32(f), func(bit uint32) (string, bool) {
		for _, e := range protocolFlagNames {
			if uint32(e.flag) == bit {
				return e.name, true
			}
		}
		return "", false
	})
}

func flagString(bits uint32, lookup func(uint32) (string, bool)) string {
	if bits == 0 {
		return "NONE"
	}
	var names []string
	for bit := uint32(1); bit != 0; bit <<= 1 {
		if bits&bit == 0 {
			continue
		}
		if name, ok := lookup(bit); ok {
			names = append(names, name)
		} else {
			names = append(names, fmt.Sprintf("unknown bit %d", bitPosition(bit)))
		}
	}
	return strings.Join(names, "|")
}

func bitPosition(bit uint32) int {
	pos := 0
	for bit > 1 {
		bit >>= 1
		pos++
	}
	return pos
}

// Stage names the per-event macro negotiation phases used by Negotiate's
// macro map, matching the libmilter SMFIM_* macro stage numbers.
type Stage uint32

const (
	StageConnect Stage = iota // SMFIM_CONNECT
	StageHelo                 // SMFIM_HELO
	StageMail                 // SMFIM_ENVFROM
	StageRcpt                 // SMFIM_ENVRCPT
	StageData                 // SMFIM_DATA
	StageEOM                  // SMFIM_EOM
	StageEOH                  // SMFIM_EOH
)

func (s Stage) String() string {
	switch s {
	case StageConnect:
		return "CONNECT"
	case StageHelo:
		return "HELO"
	case StageMail:
		return "MAIL"
	case StageRcpt:
		return "RCPT"
	case StageData:
		return "DATA"
	case StageEOM:
		return "EOM"
	case StageEOH:
		return "EOH"
	default:
		return fmt.Sprintf("Stage(%d)", uint32(s))
	}
}
