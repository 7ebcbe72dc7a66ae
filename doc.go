// Package a3s is a Go client for the A3S agent service.
//
// The SDK talks to the service's REST and SSE endpoints and layers three
// concerns on top of the raw transport:
//
//   - [Client] is the typed entry point: session CRUD plus blocking and
//     streaming message delivery.
//   - [Normalize] converts any mix of [MessageParam] values, including the
//     openai package's ChatMessage, into the native [Message] schema before
//     a request leaves the process.
//   - [Stream] turns the transport's callback-style stream handles into a
//     pull iterator with Next/Current/Err semantics.
//
// # Quick Start
//
//	client, err := a3s.NewClient(
//	    a3s.WithBaseURL("http://localhost:8080"),
//	    a3s.WithAPIKey(os.Getenv("A3S_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sess, err := client.CreateSession(ctx, &a3s.CreateSessionRequest{Model: "agent-large"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stream, err := client.StreamMessage(ctx, sess.ID, a3s.Message{
//	    Role:    a3s.RoleUser,
//	    Content: "Summarize today's commits.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//	for stream.Next() {
//	    if chunk := stream.Current(); chunk.Type == a3s.ChunkTypeContent {
//	        fmt.Print(chunk.Content)
//	    }
//	}
//	if err := stream.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Sub-packages
//
//   - [openai] maps the native schema to and from OpenAI chat completion
//     shapes for callers migrating existing integrations.
package a3s
