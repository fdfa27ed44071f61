package model

import "strings"

// Channel is an outreach channel whose execution an evidence package proves.
type Channel uint8

const (
	IVR Channel = 1 << iota
	SMS
	CALL
)

// AllChannels lists the channels in the order the engine processes them.
var AllChannels = []Channel{IVR, SMS, CALL}

func (c Channel) String() string {
	switch c {
	case IVR:
		return "IVR"
	case SMS:
		return "SMS"
	case CALL:
		return "CALL"
	default:
		return "UNKNOWN"
	}
}

// ChannelSet is a non-exclusive set of channels.
type ChannelSet uint8

// NewChannelSet builds a set from the given channels.
func NewChannelSet(chs ...Channel) ChannelSet {
	var s ChannelSet
	for _, c := range chs {
		s = s.Add(c)
	}
	return s
}

// Add returns the set with c included.
func (s ChannelSet) Add(c Channel) ChannelSet { return s | ChannelSet(c) }

// Union returns the channels in s or o.
func (s ChannelSet) Union(o ChannelSet) ChannelSet { return s | o }

// Has reports whether c is in the set.
func (s ChannelSet) Has(c Channel) bool { return s&ChannelSet(c) != 0 }

// Empty reports whether the set holds no channel.
func (s ChannelSet) Empty() bool { return s == 0 }

// Len returns the number of channels in the set.
func (s ChannelSet) Len() int {
	n := 0
	for _, c := range AllChannels {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// Channels returns the members in processing order.
func (s ChannelSet) Channels() []Channel {
	var out []Channel
	for _, c := range AllChannels {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s ChannelSet) String() string {
	chs := s.Channels()
	names := make([]string, len(chs))
	for i, c := range chs {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
