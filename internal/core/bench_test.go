package core

import (
	"context"
	"fmt"
	"testing"
)

func benchmarkRoomBroadcast(b *testing.B, recipients int) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(NewRegistry(), nil)
	go hub.Run(ctx)

	sender := NewSession("sender", 8)
	hub.RegisterClient(sender)
	sender.Commands <- joinBenchCommand("sender")

	sessions := make([]*Session, 0, recipients)
	for i := range recipients {
		s := NewSession(fmt.Sprintf("c%d", i), 8)
		hub.RegisterClient(s)
		s.Commands <- joinBenchCommand(fmt.Sprintf("user%d", i))
		sessions = append(sessions, s)
	}

	// Drain events for all but the first recipient to avoid channel
	// backpressure.
	target := sessions[0]
	for _, s := range sessions[1:] {
		go func(sess *Session) {
			for range sess.Events {
			}
		}(s)
	}
	<-target.Events // space-joined reply

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		sender.Commands <- &Command{Kind: CommandChat, Text: "payload"}
		for {
			if ev := <-target.Events; ev.Kind == EventChat {
				break
			}
		}
	}
}

func joinBenchCommand(user string) *Command {
	return &Command{
		Kind:   CommandJoinSpace,
		Space:  "bench",
		User:   user,
		Width:  64,
		Height: 64,
	}
}

func BenchmarkRoomBroadcast_10(b *testing.B)  { benchmarkRoomBroadcast(b, 10) }
func BenchmarkRoomBroadcast_100(b *testing.B) { benchmarkRoomBroadcast(b, 100) }
func BenchmarkRoomBroadcast_500(b *testing.B) { benchmarkRoomBroadcast(b, 500) }
