// Package identity implements local accounts: password policy, user
// validation, bcrypt hashing and password sign-in with lockout.
//
// Storage is left to the application through [UserStore]. A [UserManager]
// creates users and changes passwords; a [SignInManager] verifies
// credentials, counts failures and locks accounts out:
//
//	opts := identity.DefaultOptions()
//	hasher := identity.NewHasher(opts.BcryptCost)
//	users := identity.NewUserManager(store, hasher, opts)
//	signIn := identity.NewSignInManager(store, hasher, opts)
//
//	res := signIn.PasswordSignIn(ctx, "jane@example.com", password)
//	if res.IsError() {
//		return problem.FromErrors(res.Errors())
//	}
//
// Validation failures are reported as errs.Errors with stable codes such as
// "Password.TooShort" or "User.DuplicateEmail".
package identity
