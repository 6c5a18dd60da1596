package marketplace

// GraphQL documents for the marketplace API. Field sets are exactly what the
// engine consumes; the order fragment carries every signed field plus the
// server-side fill state.

const orderFields = `
  id
  maker
  kind
  expiredAt
  paymentToken
  startedAt
  basePrice
  endedAt
  endedPrice
  expectedState
  nonce
  marketFeePercentage
  signature
  currentPrice
  assets {
    erc
    address
    id
    quantity
    orderId
    availableQuantity
    remainingQuantity
  }
`

const queryGetAxieDetail = `
query GetAxieDetail($axieId: ID!) {
  axie(axieId: $axieId) {
    id
    order {` + orderFields + `}
  }
}`

const queryGetAxieLatest = `
query GetAxieLatest($from: Int!, $size: Int!, $sort: SortBy, $auctionType: AuctionType) {
  axies(from: $from, size: $size, sort: $sort, auctionType: $auctionType) {
    total
    results {
      id
      order {` + orderFields + `}
    }
  }
}`

const queryGetErc1155Orders = `
query GetBuyNowErc1155Orders($tokenType: Erc1155Type!, $tokenId: String, $from: Int!, $size: Int!, $sort: SortBy = PriceAsc) {
  erc1155Token(tokenType: $tokenType, tokenId: $tokenId) {
    tokenId
    total
    orders(from: $from, size: $size, sort: $sort) {
      total
      quantity
      data {` + orderFields + `}
    }
  }
}`

const queryGetErc1155ByOwner = `
query GetErc1155DetailByOwner($tokenType: Erc1155Type!, $owner: String, $tokenId: String) {
  erc1155ByOwner: erc1155Token(tokenType: $tokenType, owner: $owner, tokenId: $tokenId) {
    tokenId
    totalOwned: total
    orders(from: 0, size: 100, maker: $owner, sort: PriceAsc, includeInvalid: true) {
      totalListed: quantity
      totalOrders: total
      data {` + orderFields + `}
    }
  }
}`

const queryGetErc1155Balance = `
query GetErc1155Token($owner: String!, $tokenId: String!) {
  erc1155Token(tokenType: Material, tokenId: $tokenId, owner: $owner) {
    tokenId
    total
  }
}`

const queryGetMaterials = `
query GetMaterials($owner: String) {
  erc1155Tokens(owner: $owner, tokenType: Material, from: 0, size: 32) {
    total
    results {
      name
      description
      tokenAddress
      tokenId
      tokenType
      quantity: total
      minPrice
      orders(from: 0, size: 1) {
        total
      }
    }
  }
}`

const queryGetMaterialDetail = `
query GetMaterialDetail($tokenId: String) {
  erc1155Token(tokenType: Material, tokenId: $tokenId) {
    name
    description
    tokenAddress
    tokenId
    tokenType
    minPrice
    totalSupply: total
    totalOwners
  }
}`

const mutationCreateOrder = `
mutation CreateOrder($order: InputOrder!, $signature: String!) {
  createOrder(order: $order, signature: $signature) {` + orderFields + `}
}`
