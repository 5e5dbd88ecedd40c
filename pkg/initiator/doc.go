// Package initiator is the client side of the trial checkout flow.
//
// An Initiator wraps a SessionCreator (normally the HTTP Client) with a state
// machine: idle, requesting, redirecting. Only one request can be in flight;
// a failure returns to idle with the server's message available from
// LastError; a success yields a Navigation the caller acts on.
//
//	client := initiator.NewClient("https://app.example.com")
//	in := initiator.New(client, subscription.ProviderCheckout, subscription.Request{
//		TenantID: "acme", Plan: "pro", Email: "owner@acme.test",
//	})
//	nav, err := in.Submit(ctx)
//	if err != nil {
//		fmt.Println(in.LastError())
//		return
//	}
//	openBrowser(nav.URL)
package initiator
