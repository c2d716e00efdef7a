// Package environment names the deployment environments alertkit binaries
// run in and carries the current one through context.Context.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	ctx = environment.WithContext(ctx, env)
//
// Unknown names fall back to Development so a missing variable never stops
// a tool from starting.
package environment
