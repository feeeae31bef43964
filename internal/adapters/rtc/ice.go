// Package rtc builds the ICE configuration handed to browser peers.
// The relay never opens a peer connection itself.
package rtc

import (
	"github.com/dkeye/Duet/internal/config"
	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

func DefaultWebRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
	}
}

// WebRTCConfig converts configured servers, skipping URLs that do not parse
// as stun:, stuns:, turn: or turns: URIs. An empty result falls back to
// DefaultWebRTCConfig.
func WebRTCConfig(servers []config.ICEServer) webrtc.Configuration {
	out := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		urls := make([]string, 0, len(s.URLs))
		for _, raw := range s.URLs {
			if _, err := stun.ParseURI(raw); err != nil {
				log.Warn().Err(err).Str("module", "rtc").Str("url", raw).Msg("skipping ICE url")
				continue
			}
			urls = append(urls, raw)
		}
		if len(urls) == 0 {
			continue
		}
		srv := webrtc.ICEServer{URLs: urls, Username: s.Username}
		if s.Credential != "" {
			srv.Credential = s.Credential
			srv.CredentialType = webrtc.ICECredentialTypePassword
		}
		out = append(out, srv)
	}
	if len(out) == 0 {
		return DefaultWebRTCConfig()
	}
	return webrtc.Configuration{ICEServers: out}
}
