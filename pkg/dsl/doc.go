/*
Package dsl provides a fluent builder for constructing workflows in Go
instead of hand-writing YAML or JSON. It is mainly used in tests, demos
and for the built-in templates.

Example usage:

	wf, err := dsl.New("onboarding", "Onboarding").
		Node("welcome", dsl.Trigger("user_signed_up")).
		Node("greet", dsl.Message("Welcome aboard!")).
		Node("wait", dsl.Delay(60)).
		Connect("welcome", "greet").
		Connect("greet", "wait").
		Build()
*/
package dsl
