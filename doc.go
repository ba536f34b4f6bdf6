// Package fedapay provides a Go client for the FedaPay payment API.
//
// The client signs every request with a secret API key, retries network
// failures and 409 conflicts with exponential backoff, and turns failed
// responses into *Error values classified by kind.
//
// Basic usage:
//
//	client, err := fedapay.New("sk_sandbox_...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create a customer
//	customer, err := client.Customers.Create(ctx, fedapay.NewParams().
//	    Set("firstname", "John").
//	    Set("lastname", "Doe").
//	    Set("email", "john@example.com"))
//	if err != nil {
//	    var apiErr *fedapay.Error
//	    if errors.As(err, &apiErr) {
//	        log.Fatalf("%s: %s", apiErr.Kind, apiErr.Message)
//	    }
//	    log.Fatal(err)
//	}
//
// Webhooks are verified with ConstructEvent:
//
//	event, err := fedapay.ConstructEvent(body, r.Header.Get("X-FEDAPAY-SIGNATURE"), secret)
//	if errors.Is(err, fedapay.ErrSignatureVerification) {
//	    w.WriteHeader(http.StatusBadRequest)
//	    return
//	}
//
// Settings can also be read from FEDAPAY_* environment variables with
// LoadConfig and NewFromConfig.
package fedapay
