// Package submission models a single website form submission.
//
// A Submission is an ordered, read-only set of fields parsed from a JSON
// object or an url-encoded body. Field order is preserved from the request
// so that every rendering of the submission (notification body, campaign
// table) lists fields the way the form sent them. Submissions live only for
// the duration of one request.
package submission
