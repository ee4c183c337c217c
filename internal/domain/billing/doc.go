// Package billing provides domain models for subscription plans and
// payment-gateway integration in a multi-tenant SaaS application.
//
// The package covers:
//   - Plan pricing and purchasability rules
//   - The PaymentGateway port for hosted checkout providers
//   - Merchant order references that tie a gateway transaction back to
//     the company and plan it pays for
//
// The billing domain integrates with the identity domain, which owns
// each company's subscription state.
package billing
