// Package chat orchestrates multi-turn conversations against an inference
// backend and extracts structured correction results from free-form replies.
//
// Invariants:
//   - The session store lock is never held across a backend call.
//   - A failed backend call still leaves the user turn in the session.
//   - The correction workflow deletes its throwaway session on every exit
//     path.
//
// Usage:
//
//	svc := chat.NewService(store, gateway, chat.DefaultOptions())
//	res, err := svc.Chat(ctx, chat.Params{Message: "hola"})
//	if err != nil {
//		// errors.Is against ErrInvalidInput / ErrBackend
//	}
//	_ = res.Reply
package chat
