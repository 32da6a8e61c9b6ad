// Package models defines the core domain records for the storefront.
//
// # Models
//
//   - Product: a catalog entry derived from the product markup
//   - Line: a product captured by value into the cart or wishlist
//   - Order: a line that went through checkout, with a timestamp
//   - Review: one customer review for a product
//   - User: the single registered demo account
//
// # Design Principles
//
//  1. Records are plain values; equality is value equality.
//  2. A Product's ID is its image URL. It is stable as long as the catalog
//     source is stable, and it is the join key for cart, wishlist, and review
//     entries across restarts.
//  3. Timestamps are Unix milliseconds, matching the persisted JSON the
//     browser demo wrote (JavaScript Date.now()).
//  4. JSON tags define the persistence contract; renaming a tag is a breaking
//     change for existing stores.
package models
