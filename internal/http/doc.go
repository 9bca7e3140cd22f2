// Package http provides HTTP handlers and middleware for the hostel dashboard API.
//
// Clients authenticate with POST /api/sessions ({"email","password","role"}).
// The response carries a signed token, also surfaced via the `X-Session-Token`
// header and a `session_token` cookie. The token names a client namespace in
// storage; the session itself lives in that namespace, so logging out
// invalidates every token of the client.
//
// Routes:
//   - GET/DELETE /api/sessions/current, POST /api/registrations
//   - GET /api/gate?path=, GET /api/navigation, GET /api/dashboard
//   - GET/POST /api/outpass-requests, PUT /api/outpass-requests/{id}
//   - GET/POST /api/complaints, PUT /api/complaints/{id}
//   - GET /api/menu, PUT /api/menu/{day}/{meal}
//   - GET/POST /api/announcements, DELETE /api/announcements/{id}
//   - GET/PUT /api/attendance, GET /api/attendance/export,
//     POST /api/attendance/notifications
//   - GET /api/students, POST /api/students/import, PUT/DELETE /api/students/{id}
//   - GET /healthz, GET /metrics
//
// Every API route is gated by the page table in internal/access: a role that
// cannot open the route's page gets 403 with a redirect hint. Mutation
// responses include the notifications the operation emitted.
package http
