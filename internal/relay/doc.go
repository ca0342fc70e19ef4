// Package relay fans a form submission out to the downstream platforms.
//
// Each submission goes through three steps: an internal notification email
// (Mailgun), an audience subscription and a draft campaign (Mailchimp).
// The steps are independent: a failure in one is recorded in the Outcome
// and never prevents the others from running. Notification and subscription
// run concurrently; the campaign step runs after both have finished.
//
// Nothing is retried or deduplicated. Submitting the same form twice
// produces two notifications, two subscription attempts and two campaigns.
package relay
