package interopnames

// Names of all used interops.
const (
	SystemContractCall                  = "System.Contract.Call"
	SystemContractCallNative            = "System.Contract.CallNative"
	SystemContractCreateMultisigAccount = "System.Contract.CreateMultisigAccount"
	SystemContractCreateStandardAccount = "System.Contract.CreateStandardAccount"
	SystemContractGetCallFlags          = "System.Contract.GetCallFlags"
	SystemCryptoCheckMultisig           = "System.Crypto.CheckMultisig"
	SystemCryptoCheckSig                = "System.Crypto.CheckSig"
	SystemRuntimeCheckWitness           = "System.Runtime.CheckWitness"
	SystemRuntimeGetScriptContainer     = "System.Runtime.GetScriptContainer"
	SystemRuntimeLog                    = "System.Runtime.Log"
	SystemRuntimeNotify                 = "System.Runtime.Notify"
)

var names = []string{
	SystemContractCall,
	SystemContractCallNative,
	SystemContractCreateMultisigAccount,
	SystemContractCreateStandardAccount,
	SystemContractGetCallFlags,
	SystemCryptoCheckMultisig,
	SystemCryptoCheckSig,
	SystemRuntimeCheckWitness,
	SystemRuntimeGetScriptContainer,
	SystemRuntimeLog,
	SystemRuntimeNotify,
}
